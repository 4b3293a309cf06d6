// Package fsiconfig reads the flat KEY = VALUE configuration files used to
// set up Fluid-Structure Interaction runs. Options belong to a closed
// vocabulary and are converted to int, float or string according to a fixed
// table; unrecognized options are reported and dropped unless the strict
// loader is used.
package fsiconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vortexcfd/fsi-simulations/pkg/logger"
)

type value struct {
	kind Kind
	i    int
	f    float64
	s    string
}

func (v value) format() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Config holds the typed options of one FSI configuration file. Entries keep
// the order in which they were first set.
type Config struct {
	path   string
	keys   []string
	values map[string]value
}

// Load reads an FSI configuration file. Unknown options are logged and
// dropped; a malformed numeric value for a known option fails the load.
func Load(path string) (*Config, error) {
	return load(path, false)
}

// LoadStrict is Load with unknown options promoted to errors. Useful when a
// silently swallowed typo would cost a cluster allocation.
func LoadStrict(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, strict bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	c := &Config{
		path:   path,
		values: make(map[string]value),
	}
	if err := c.read(f, strict); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) read(r io.Reader, strict bool) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		// Comment and blank lines carry no entry and no diagnostic
		if !strings.Contains(line, "=") || line[0] == '%' {
			continue
		}

		key, rawValue, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		rawValue = strings.TrimSpace(rawValue)

		kind, ok := optionKinds[key]
		if !ok {
			if strict {
				return fmt.Errorf("%s:%d: %s is an invalid option!", c.path, lineNo, key)
			}
			logger.Warnf("%s is an invalid option!", key)
			continue
		}

		switch kind {
		case KindInt:
			n, err := strconv.Atoi(rawValue)
			if err != nil {
				return fmt.Errorf("%s:%d: invalid value for %s: %w", c.path, lineNo, key, err)
			}
			c.SetInt(key, n)
		case KindFloat:
			x, err := strconv.ParseFloat(rawValue, 64)
			if err != nil {
				return fmt.Errorf("%s:%d: invalid value for %s: %w", c.path, lineNo, key, err)
			}
			c.SetFloat(key, x)
		default:
			c.SetString(key, rawValue)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// applyDefaults standardizes the relaxation options when the structural
// motion is imposed: there is no fixed-point iteration to relax, so the
// scheme is forced static with unit parameter.
func (c *Config) applyDefaults() {
	if solver, ok := c.lookup(CSDSolver); ok && solver.s == "IMPOSED" {
		c.SetString(AitkenRelax, "STATIC")
		c.SetFloat(AitkenParam, 1.0)
	}
}

func (c *Config) lookup(key string) (value, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *Config) set(key string, v value) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

// SetInt stores an integer option
func (c *Config) SetInt(key string, n int) { c.set(key, value{kind: KindInt, i: n}) }

// SetFloat stores a floating-point option
func (c *Config) SetFloat(key string, x float64) { c.set(key, value{kind: KindFloat, f: x}) }

// SetString stores a string option verbatim
func (c *Config) SetString(key, s string) { c.set(key, value{kind: KindString, s: s}) }

// Has reports whether the option is present
func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Int returns an integer option. Reading an option that is not set is a
// usage error and panics, matching the indexed-access contract.
func (c *Config) Int(key string) int {
	v, ok := c.lookup(key)
	if !ok || v.kind != KindInt {
		panic(fmt.Sprintf("fsiconfig: no integer option %s", key))
	}
	return v.i
}

// Float returns a floating-point option, panicking when it is not set
func (c *Config) Float(key string) float64 {
	v, ok := c.lookup(key)
	if !ok || v.kind != KindFloat {
		panic(fmt.Sprintf("fsiconfig: no float option %s", key))
	}
	return v.f
}

// Str returns a string option, panicking when it is not set
func (c *Config) Str(key string) string {
	v, ok := c.lookup(key)
	if !ok || v.kind != KindString {
		panic(fmt.Sprintf("fsiconfig: no string option %s", key))
	}
	return v.s
}

// LookupString is the checked form of Str for use at boundaries
func (c *Config) LookupString(key string) (string, bool) {
	v, ok := c.lookup(key)
	if !ok || v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Keys returns the option names in insertion order
func (c *Config) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Path returns the file the configuration was loaded from
func (c *Config) Path() string { return c.path }

// String dumps all entries as "key = value" lines in storage order
func (c *Config) String() string {
	var b strings.Builder
	for _, key := range c.keys {
		fmt.Fprintf(&b, "%s = %s\n", key, c.values[key].format())
	}
	return b.String()
}

// Export returns the entries as a flat map for serialization, for example
// the YAML export command. Numeric kinds keep their Go types.
func (c *Config) Export() map[string]interface{} {
	out := make(map[string]interface{}, len(c.keys))
	for key, v := range c.values {
		switch v.kind {
		case KindInt:
			out[key] = v.i
		case KindFloat:
			out[key] = v.f
		default:
			out[key] = v.s
		}
	}
	return out
}
