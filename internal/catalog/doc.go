// Package catalog indexes every available localization pack's voice clips,
// lip-animation clips, identity map, timing table, and subtitle track by line
// key. Catalog integrity is a pipeline precondition: any missing or malformed
// asset aborts the run before anything is mutated.
package catalog
