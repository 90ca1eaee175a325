package ports

import "decarpool/internal/carpool-service/core/domain/dto"

// IRideFeed pushes ride lifecycle events to connected websocket clients.
type IRideFeed interface {
	Broadcast(ev dto.RideEvent)
}
