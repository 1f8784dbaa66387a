package dbModel

import "time"

type Case struct {
	ID       string    `db:"case_id"`
	Payload  []byte    `db:"payload"`
	DtUpdate time.Time `db:"dt_update"`
}
