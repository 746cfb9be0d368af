// Package mapping holds the static lookup tables that reconcile the Apple and
// Google export schemas into the canonical one: filename patterns identifying
// each source, and per-source column renames.
package mapping

import (
	"errors"
	"fmt"
	"strings"
)

type DataType string

const (
	Keywords DataType = "keywords"
	Installs DataType = "installs"
	Users    DataType = "users"
)

// DataTypes lists all data types in processing order.
var DataTypes = []DataType{Keywords, Installs, Users}

type Platform string

const (
	Apple  Platform = "Apple"
	Google Platform = "Google"
)

// Platforms lists both platforms in merge order: Apple rows come first in
// every merged table.
var Platforms = []Platform{Apple, Google}

var ErrUnrecognizedFile = errors.New("file not recognized")

type sourceKey struct {
	dataType DataType
	platform Platform
}

// filePatterns are matched as substrings of the export filenames.
var filePatterns = map[sourceKey]string{
	{Keywords, Apple}:  "APPLE motcles",
	{Keywords, Google}: "GOOGLE motcles",
	{Installs, Apple}:  "Installs Apple",
	{Installs, Google}: "Installs Google",
	{Users, Apple}:     "Utilisateurs connectés Apple",
	{Users, Google}:    "Utilisateurs connectés Google",
}

// standardColumns is the canonical schema per data type, in output order.
var standardColumns = map[DataType][]string{
	Keywords: {"Date", "Rank_1", "Rank_2_3", "Rank_4_10", "Rank_11_30", "Rank_31_100", "Rank_100_Plus", "Platform", "Stage"},
	Installs: {"Date", "Installs", "Platform", "Stage"},
	Users:    {"Date", "Active_Users", "Platform", "Notes", "Stage"},
}

// keywordsRenames apply to both platforms: the ranking exports share one
// layout.
var keywordsRenames = map[string]string{
	"DateTime":    "Date",
	"Rank 1":      "Rank_1",
	"Rank 2 - 3":  "Rank_2_3",
	"Rank 4 - 10": "Rank_4_10",
	"Rank 11-30":  "Rank_11_30",
	"Rank 31-100": "Rank_31_100",
	"Rank 100+":   "Rank_100_Plus",
}

var installsRenames = map[Platform]map[string]string{
	Apple: {
		"Date":           "Date",
		"Installs Apple": "Installs",
	},
	Google: {
		"Date":                 "Date",
		"Installs Google Play": "Installs",
	},
}

// usersRenames differ sharply between the consoles. The Apple export carries
// metadata rows and labels the date column "Nom"; the Google one uses the
// full UAM column title, non-breaking space included.
var usersRenames = map[Platform]map[string]string{
	Apple: {
		"Nom":                          "Date",
		"Courses U : Magasin en ligne": "Active_Users",
	},
	Google: {
		"Date": "Date",
		// The console inserts a non-breaking space before the colon.
		"Utilisateurs actifs par mois (UAM) (Utilisateurs uniques, Par intervalle, Quotidiennes) : Tous les pays/régions": "Active_Users",
		"Notes": "Notes",
	},
}

// Pattern returns the filename substring identifying one source export.
func Pattern(dt DataType, p Platform) string {
	return filePatterns[sourceKey{dt, p}]
}

// MatchFile identifies the (data type, platform) pair a filename belongs to.
func MatchFile(name string) (DataType, Platform, error) {
	for key, pattern := range filePatterns {
		if strings.Contains(name, pattern) {
			return key.dataType, key.platform, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnrecognizedFile, name)
}

// RenameMap returns source column -> canonical column for one source export.
func RenameMap(dt DataType, p Platform) map[string]string {
	switch dt {
	case Keywords:
		return keywordsRenames
	case Installs:
		return installsRenames[p]
	case Users:
		return usersRenames[p]
	}
	return nil
}

// StandardColumns returns the canonical schema for a data type, in output
// order. Platform and Stage are derived columns, never supplied by a source.
func StandardColumns(dt DataType) []string {
	return standardColumns[dt]
}
