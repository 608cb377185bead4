// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the item service, translating HTTP concerns to service calls and
// service errors to status codes.
//
// Routes are mounted under /api/items:
//
//	GET    /api/items          list all items
//	POST   /api/items          create an item (201, or 400)
//	GET    /api/items/process  run the batch and return processed items
//	GET    /api/items/{id}     fetch one item (200, or 204 when absent)
//	PUT    /api/items/{id}     update an item (200, 400, or 404)
//	DELETE /api/items/{id}     delete an item (always 204)
package api
