// Package repository handles all interactions with the database.
//
// Each repository wraps one collection and speaks in model types, so the
// service layer never builds filters or names collections itself.
package repository
