// Package preferences holds the runtime curation preferences. The host
// resolves them into a pass configuration before each pass.
package preferences
