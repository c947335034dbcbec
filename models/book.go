package models

// Book is a catalog entry. Books have no owner.
type Book struct {
	ID            int64  `db:"id" json:"id"`
	Title         string `db:"title" json:"title"`
	Author        string `db:"author" json:"author"`
	Description   string `db:"description" json:"description"`
	Rating        int    `db:"rating" json:"rating"`
	PublishedYear int    `db:"published_year" json:"published_date"`
}
