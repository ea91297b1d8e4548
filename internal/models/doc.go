// Package models defines the data model for the release tracking service.
//
// Persistent entities (Artist, NotificationRecord, DNSEntry) are stored via
// the repositories package; Release is a value object fetched from catalog
// services and only cached, never mutated.
package models
