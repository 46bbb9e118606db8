package models

import (
	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int    `bun:",pk,nullzero" json:"id"`
	Title       string `bun:",notnull" json:"title"`
	Author      string `bun:",notnull" json:"author"`
	Description string `bun:",notnull" json:"description"`
	GenreID     int    `bun:",nullzero" json:"-"`
	// GenreName is filled from the genres join and never written.
	GenreName string `bun:",scanonly" json:"genre"`
}
