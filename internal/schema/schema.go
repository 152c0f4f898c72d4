// internal/schema/schema.go
// Package schema holds the fixed column vocabularies shared by the merge and
// aggregation stages: the canonical merged-annotation header, the count-table
// header, the taxonomic rank order, and the one-to-many split classification.
package schema

import "strings"

// MergedHeader is the canonical header of a merged annotation table.
// The first two columns form the composite key.
var MergedHeader = []string{
	"contig", "orf", "taxonomy", "erfc", "orf_taxonomy",
	"refseq_product", "refseq_evalue", "refseq_bitscore",
	"uniprot_ac", "eggnog_ssid_b", "eggnog_species_id",
	"uniprot_id", "ko_id", "ko_level1_name", "ko_level2_name",
	"ko_level3_id", "ko_level3_name", "ko_gene_symbol",
	"ko_product", "ko_ec", "eggnog_evalue", "eggnog_bitscore",
	"enzyme_ec", "enzyme_name", "cazy_gene", "cazy_family",
	"cazy_class", "cazy_ec", "cog_protein_id", "cog_id",
	"cog_functional_class", "cog_annotation",
	"cog_functional_class_description",
}

// CountsHeader is the required leading header of a count table; the single
// trailing measurement column (a sample file path) is renamed to CountColumn
// on load and never travels under its original name.
var CountsHeader = []string{"Geneid", "Chr", "Start", "End", "Strand", "Length"}

// CountColumn is the canonical name of the read-count measurement column.
const CountColumn = "count"

// KeyColumns is the composite key of every annotation table.
var KeyColumns = [2]string{"contig", "orf"}

// TaxRanks is the ordered rank vocabulary, broadest first. Lineage strings
// are comma-joined prefixes of this order.
var TaxRanks = []string{"domain", "phylum", "class", "order", "family", "genus", "species"}

// RankIndex returns the 1-based position of rank in TaxRanks.
func RankIndex(rank string) (int, bool) {
	for i, r := range TaxRanks {
		if r == rank {
			return i + 1, true
		}
	}
	return 0, false
}

// SplitGroups classifies one-to-many columns for expansion. Columns sharing a
// group id split as paired lists with one shared element index; a column whose
// group id is its own name splits independently. New pairings only need a row
// here, not new control flow.
var SplitGroups = map[string]string{
	"enzyme_name": "enzyme",
	"enzyme_ec":   "enzyme",
	"cazy_ec":     "cazy_ec",
}

var mergedSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(MergedHeader))
	for _, c := range MergedHeader {
		m[c] = struct{}{}
	}
	return m
}()

// IsAnnotationColumn reports whether name is part of the canonical merged
// annotation header.
func IsAnnotationColumn(name string) bool {
	_, ok := mergedSet[name]
	return ok
}

// ResolveColumns filters requested down to known annotation columns,
// de-duplicated, preserving first-seen request order. Unknown names are
// returned separately so callers can log them.
func ResolveColumns(requested []string) (known, unknown []string) {
	seen := make(map[string]struct{}, len(requested))
	for _, c := range requested {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if IsAnnotationColumn(c) {
			known = append(known, c)
		} else {
			unknown = append(unknown, c)
		}
	}
	return known, unknown
}
