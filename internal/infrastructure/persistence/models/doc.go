// Package models contains the GORM database models of the persistence
// layer, kept separate from the domain types they serialize.
package models
