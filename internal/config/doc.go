// Package config provides configuration structures and utilities for leadscan.
// It defines the crawl bounds, politeness settings, output preferences and
// the optional .leadscan file that carries per-site overrides.
package config
