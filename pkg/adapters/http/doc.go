// Package http serves calculator sessions over a JSON API described by the
// embedded openapi.yaml, with Server-Sent Events for live state diffs.
package http
