// Package aggregates implements the domain aggregates on gorm.
//
// Each write runs inside one TxRunner transaction, takes the course_module row locks it
// needs, composes the table repos from internal/data/repos and maps failures through
// MapError.
package aggregates
