package sqlinline

const QInsertSnapshot = `--sql e534b749-75a1-439c-b800-f56f5128cbf3
insert into snapshots (id, image_data, processed, properties, created_at)
values (gen_random_uuid(), $1, false, $2, $3)
returning id;
`

const QGetSnapshot = `--sql 3fd2d75f-4182-4542-a2f9-0a6c8d8fbcbb
select id, image_data, processed, face_detected, emotions, mood, error_message, properties, created_at, processed_at
from snapshots
where id = $1;
`

const QListPendingSnapshots = `--sql 4c3efe34-6336-4485-903b-7c28f47b4796
select id, image_data, processed, face_detected, emotions, mood, error_message, properties, created_at, processed_at
from snapshots
where processed = false
order by created_at asc
limit $1;
`

const QListRecentSnapshots = `--sql ad92c9f7-faae-41fe-a443-5a824c5b7472
select id, image_data, processed, face_detected, emotions, mood, error_message, properties, created_at, processed_at
from snapshots
order by created_at desc
limit $1;
`

const QMarkSnapshotAnalyzed = `--sql bab2101c-8b6f-44a7-bfae-6373d2d8436f
update snapshots
set processed = true,
    face_detected = true,
    emotions = $2,
    mood = $3,
    processed_at = now()
where id = $1;
`

const QMarkSnapshotNoFace = `--sql 0d8815df-2e73-44dc-913b-7e0deb8b1d5d
update snapshots
set processed = true,
    face_detected = false,
    processed_at = now()
where id = $1;
`

const QMarkSnapshotFailed = `--sql 35fe2ab2-d4f6-459a-b556-77c8610e6618
update snapshots
set processed = true,
    error_message = $2,
    processed_at = now()
where id = $1;
`
