// Package model holds the trajectory data model produced by an import run.
//
// Responsibilities: spots (point or polygon observations), the
// frame-indexed spot collection, directed inter-frame edges and tracks,
// and the calibration/settings bundle handed to persistence and display
// collaborators.
// Key types: Spot, SpotCollection, Graph, Settings, Project.
//
// No file parsing or SQL is allowed in this package.
package model
