// Package models contains the GORM persistence models. Master models live in
// the registry database; everything listed in TenantSchema is migrated into
// each society's own store when its connection is first opened.
package models
