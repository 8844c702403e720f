package models

// Cat is a catalog record. Rows with Deleted set are invisible to reads.
type Cat struct {
	ID      int64
	Name    string
	Breed   string
	Age     int
	Weight  float64
	Deleted bool
}
