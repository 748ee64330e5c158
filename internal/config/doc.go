// Package config provides the configuration of PhishGuard Lite: defaults,
// the optional .phishguard YAML file, SMTP settings from the environment and
// the XDG directories where data is kept.
package config
