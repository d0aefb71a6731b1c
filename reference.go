package main

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed assets/reference.yaml
var referenceYAML []byte

var (
	ErrUnknownBuild      = errors.New("unknown genome build")
	ErrUnknownChromosome = errors.New("unknown chromosome")
)

// Reference holds the silhouette geometry and the chromosome lengths of every supported build.
type Reference struct {
	chromosomes map[string]ChromosomeGeometry
	builds      map[string]GenomeBuild
	aliases     map[string]string
}

type referenceFile struct {
	Chromosomes map[string]ChromosomeGeometry `yaml:"chromosomes"`
	Builds      map[string]map[string]int     `yaml:"builds"`
	Aliases     map[string]string             `yaml:"aliases"`
}

var (
	defaultRefOnce sync.Once
	defaultRef     *Reference
	defaultRefErr  error
)

// DefaultReference returns the bundled reference tables, decoded on first use.
func DefaultReference() (*Reference, error) {
	defaultRefOnce.Do(func() {
		defaultRef, defaultRefErr = ParseReference(referenceYAML)
	})
	return defaultRef, defaultRefErr
}

// ParseReference decodes and checks a reference table file.
func ParseReference(data []byte) (*Reference, error) {
	var rf referenceFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to decode reference tables: %w", err)
	}
	if len(rf.Chromosomes) == 0 {
		return nil, errors.New("reference tables define no chromosomes")
	}
	if len(rf.Builds) == 0 {
		return nil, errors.New("reference tables define no genome builds")
	}

	ref := &Reference{
		chromosomes: rf.Chromosomes,
		builds:      make(map[string]GenomeBuild, len(rf.Builds)),
		aliases:     make(map[string]string, len(rf.Aliases)),
	}
	for name, g := range rf.Chromosomes {
		if g.Height <= 0 || g.Width <= 0 {
			return nil, fmt.Errorf("chromosome %s: height and width must be positive", name)
		}
	}
	for name, lengths := range rf.Builds {
		for chrom := range rf.Chromosomes {
			n, ok := lengths[chrom]
			if !ok {
				return nil, fmt.Errorf("build %s: no length for chromosome %s", name, chrom)
			}
			if n <= 0 {
				return nil, fmt.Errorf("build %s: chromosome %s length must be positive, got %d", name, chrom, n)
			}
		}
		key := strings.ToLower(name)
		ref.builds[key] = GenomeBuild{Name: name, lengths: lengths}
	}
	for alias, target := range rf.Aliases {
		if _, ok := ref.builds[strings.ToLower(target)]; !ok {
			return nil, fmt.Errorf("alias %s points at undefined build %s", alias, target)
		}
		ref.aliases[strings.ToLower(alias)] = strings.ToLower(target)
	}
	return ref, nil
}

// Geometry returns the silhouette anchor of chrom.
func (r *Reference) Geometry(chrom string) (ChromosomeGeometry, bool) {
	g, ok := r.chromosomes[chrom]
	return g, ok
}

// Build resolves a build name or alias, ignoring case.
func (r *Reference) Build(name string) (GenomeBuild, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	b, ok := r.builds[key]
	if !ok {
		return GenomeBuild{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownBuild, name, strings.Join(r.BuildNames(), ", "))
	}
	return b, nil
}

// BuildNames lists the canonical build names in sorted order.
func (r *Reference) BuildNames() []string {
	names := make([]string, 0, len(r.builds))
	for _, b := range r.builds {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names
}

// Chromosomes lists the chromosome names with geometry, autosomes first in numeric order.
func (r *Reference) Chromosomes() []string {
	names := make([]string, 0, len(r.chromosomes))
	for c := range r.chromosomes {
		names = append(names, c)
	}
	sort.Slice(names, func(i, j int) bool {
		return chromosomeLess(names[i], names[j])
	})
	return names
}
