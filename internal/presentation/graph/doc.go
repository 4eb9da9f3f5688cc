// Package graph renders parsed expressions as Mermaid flowcharts.
package graph
