// Package sites holds the ordered candidate-site set an optimisation run
// works against. The slice order defines the index space used by every
// coverage matrix, weight column and placement in the rest of the system.
package sites

import (
	"fmt"
	"sort"

	"github.com/urbansense/placement-core/pkg/models"
)

// Site is one candidate location with planar coordinates
type Site struct {
	ID string
	X  float64
	Y  float64
}

// SiteSet is an immutable, ordered collection of candidate sites plus the
// named per-site weight columns computed against the same ordering.
type SiteSet struct {
	region  string
	sites   []Site
	columns map[string][]float64
}

// New creates a SiteSet, validating that every weight column is aligned to
// the site ordering.
func New(region string, siteList []Site, columns map[string][]float64) (*SiteSet, error) {
	if len(siteList) == 0 {
		return nil, fmt.Errorf("site set must contain at least one site")
	}
	seen := make(map[string]bool, len(siteList))
	for _, s := range siteList {
		if s.ID == "" {
			return nil, fmt.Errorf("site id cannot be empty")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate site id: %s", s.ID)
		}
		seen[s.ID] = true
	}

	copied := make(map[string][]float64, len(columns))
	for name, values := range columns {
		if len(values) != len(siteList) {
			return nil, fmt.Errorf("column %s has %d values for %d sites", name, len(values), len(siteList))
		}
		vals := make([]float64, len(values))
		copy(vals, values)
		copied[name] = vals
	}

	sitesCopy := make([]Site, len(siteList))
	copy(sitesCopy, siteList)

	return &SiteSet{
		region:  region,
		sites:   sitesCopy,
		columns: copied,
	}, nil
}

// FromTable builds a SiteSet from the external pre-validated site table.
func FromTable(table *models.SiteTable) (*SiteSet, error) {
	if table == nil {
		return nil, fmt.Errorf("site table is required")
	}
	if len(table.X) != len(table.IDs) || len(table.Y) != len(table.IDs) {
		return nil, fmt.Errorf(
			"site table lengths don't match: ids=%d, x=%d, y=%d",
			len(table.IDs), len(table.X), len(table.Y),
		)
	}
	siteList := make([]Site, len(table.IDs))
	for i, id := range table.IDs {
		siteList[i] = Site{ID: id, X: table.X[i], Y: table.Y[i]}
	}
	return New(table.Region, siteList, table.Columns)
}

// Region returns the region identifier this site set was built for
func (s *SiteSet) Region() string {
	return s.region
}

// N returns the number of candidate sites
func (s *SiteSet) N() int {
	return len(s.sites)
}

// Site returns the site at the given index
func (s *SiteSet) Site(i int) Site {
	return s.sites[i]
}

// IDs returns the site identifiers in index order
func (s *SiteSet) IDs() []string {
	out := make([]string, len(s.sites))
	for i, site := range s.sites {
		out[i] = site.ID
	}
	return out
}

// X returns the x coordinates in index order
func (s *SiteSet) X() []float64 {
	out := make([]float64, len(s.sites))
	for i, site := range s.sites {
		out[i] = site.X
	}
	return out
}

// Y returns the y coordinates in index order
func (s *SiteSet) Y() []float64 {
	out := make([]float64, len(s.sites))
	for i, site := range s.sites {
		out[i] = site.Y
	}
	return out
}

// Column returns a copy of a named weight column, aligned to site order.
func (s *SiteSet) Column(name string) ([]float64, bool) {
	values, ok := s.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, true
}

// ColumnNames returns the available weight column names, sorted.
func (s *SiteSet) ColumnNames() []string {
	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
