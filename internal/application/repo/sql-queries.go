package repo

const healthCheckSQL = `SELECT 1`

// OUTBOX
const insertOutboxQuery = `
INSERT INTO outbox_event (
  aggregate_id, aggregate_type, event_type, payload, status, attempts, next_attempt_at, created_at
) VALUES ($1,$2,$3, ($4)::jsonb, $5, 0, now(), now())
RETURNING id
`

const reserveBatchSQL = `
WITH picked AS (
	SELECT id
  	FROM outbox_event
  	WHERE status IN ('NEW','FAILED')
		AND next_attempt_at <= now()
    	AND attempts < $3
  	ORDER BY id
  	FOR UPDATE SKIP LOCKED
	LIMIT $2
)
UPDATE outbox_event AS o
SET next_attempt_at = now() + $1::interval
FROM picked
WHERE o.id = picked.id
RETURNING o.id, o.aggregate_id, o.aggregate_type, o.event_type, o.payload, o.status, o.attempts, o.next_attempt_at, o.created_at;
`

const markFailedSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at=$3
WHERE id=$1`

const markGaveUpSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at = now()
WHERE id=$1
`

const markSentSQL = `UPDATE outbox_event SET status=$2, sent_at=now() WHERE id=$1`

// отправленные события старше $1 дней
const purgeSentSQL = `
DELETE FROM outbox_event
WHERE status = 'SENT' AND sent_at < now() - make_interval(days => $1)`
