package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"equiprent-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.ContractRepository
	repository.ReferenceRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		ContractRepository:  NewContractRepository(db),
		ReferenceRepository: NewReferenceRepository(db),
	}
}
