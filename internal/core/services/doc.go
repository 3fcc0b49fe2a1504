// Package services contains the core orchestration logic: the index
// builder, the query engine, the rebuild coordinator, the generation
// registry and the background rebuild scheduler.
//
// Services depend only on domain types and port interfaces. All
// infrastructure (sources, embedders, storage, the vector index) is
// injected, so each service is testable with in-memory fakes.
package services
