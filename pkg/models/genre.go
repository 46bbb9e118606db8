package models

import (
	"github.com/uptrace/bun"
)

// DefaultGenres are seeded into an empty catalog, in this order.
var DefaultGenres = []string{
	"Фантастика",
	"Детектив",
	"Роман",
	"Приключения",
	"Драма",
}

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}
