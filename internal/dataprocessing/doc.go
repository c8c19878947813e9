// Package dataprocessing implements the cleaning, validation, and
// enhancement pipeline for the online retail transaction dataset.
//
// # Architecture
//
// The package is organized into four staged components:
//
// 1. Cleaner: normalizes an extracted tabular dataset into a schema-ready shape
// 2. Validator: partitions cleaned rows into validated records and error descriptors
// 3. Enhancer: computes derived analytical fields per validated record
// 4. Reporter: aggregates data-quality statistics for the completed run
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Dataset → Cleaner → Dataset → Validator → (RetailRecords, ErrorDescriptors)
//	        → Enhancer → EnhancedRecords → Reporter → QualityReport
//
// Each stage fully consumes its input and produces a new structure; no
// stage mutates the dataset it was handed.
//
// # Error Handling
//
// Rows that fail cleaning are dropped and counted, never errored. Rows
// that fail validation become ErrorDescriptor values, never panics or
// returned errors. Only structural problems (missing dataset columns,
// empty input to the reporter) surface as errors that abort a run.
package dataprocessing
