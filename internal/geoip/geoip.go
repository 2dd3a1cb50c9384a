// Package geoip resolves client IPs to a country code for the login audit
// log. Lookups are best-effort; when no database is configured every lookup
// returns the empty string.
package geoip

import (
	"net"

	"github.com/oschwald/maxminddb-golang"
)

var db *maxminddb.Reader

// Init opens the MaxMind database at the given path. An empty path disables
// lookups.
func Init(path string) error {
	if path == "" {
		return nil
	}
	reader, err := maxminddb.Open(path)
	if err != nil {
		return err
	}
	db = reader
	return nil
}

// CountryCode returns the ISO country code for the passed IP, or "" when
// unknown or when no database is loaded.
func CountryCode(ip string) string {
	if db == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	var record struct {
		Country struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"country"`
	}
	if err := db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}
