package store

import (
	"encoding/json"
	"math/big"

	"github.com/google/uuid"

	"mock_backend/internal/model"
)

// nextID returns highest+1 when every existing id is a JSON integer,
// otherwise a random UUID string. An empty collection starts at 1.
func nextID(records []model.Record) any {
	highest := new(big.Int)
	for _, rec := range records {
		num, ok := rec[model.IDField].(json.Number)
		if !ok {
			return uuid.NewString()
		}
		n, ok := new(big.Int).SetString(num.String(), 10)
		if !ok {
			return uuid.NewString()
		}
		if n.Cmp(highest) > 0 {
			highest = n
		}
	}
	return json.Number(highest.Add(highest, big.NewInt(1)).String())
}
