package sync

import (
	"context"
)

// handleTransition is the connectivity subscription callback. An
// offline-to-online transition triggers exactly one unconditional watchlist
// refetch that writes through to the cache; this is the only automatic
// background refresh in the system.
func (s *Service) handleTransition(online bool) {
	if !online {
		return
	}

	sess, ok := s.rememberedSession()
	if !ok {
		s.log.Info("Back online with no known session, skipping watchlist resync")
		return
	}

	if _, err := s.fetchWatchlist(context.Background(), sess); err != nil {
		s.log.Error("Watchlist resync after reconnect failed", err)
		return
	}
	s.log.Info("Watchlist resynced after reconnect")
}
