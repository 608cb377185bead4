// Package service contains the application use cases for items. It
// orchestrates domain objects and the store.ItemStore interface to fulfil
// the CRUD operations and owns the batch processing coordinator.
//
// Key components:
//
// 1. ItemService:
//   - CRUD use cases with validation applied before anything is persisted
//   - Delegates "process all" to the coordinator
//
// 2. ItemProcessor:
//   - Fans one task per item out to the shared worker pool
//   - Waits for every task, then merges the per-task outcome slots
//   - Resolves a task.Future exactly once
//
// 3. Error Handling:
//   - Store sentinels are translated to service sentinels
//   - Unexpected errors are wrapped in ItemServiceError
//
// The service layer depends on domain entities and the store interface, never
// on a specific storage implementation.
package service
