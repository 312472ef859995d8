package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/service"
	"HashClock/internal/services/astro"
	"HashClock/pkg/config"
	xhttp "HashClock/pkg/http"
)

var _ service.EphemerisProvider = (*Remote)(nil)

// Remote asks an external ephemeris service for longitudes. It answers for
// every requested body or fails; a partial reply is an error.
type Remote struct {
	*HTTPServiceBase
}

func NewRemote(cfg *config.Config, opts ...xhttp.ClientOption) *Remote {
	return &Remote{HTTPServiceBase: NewHTTPServiceBase(cfg, opts...)}
}

type longitudesReq struct {
	JulianDay float64  `json:"julianDay"`
	Bodies    []string `json:"bodies"`
}

type longitudesResp struct {
	Longitudes map[string]float64 `json:"longitudes"`
}

func (r *Remote) Name() models.Strategy { return models.StrategyRemote }

func (r *Remote) Longitudes(ctx context.Context, instant time.Time, bodies []models.Body) ([]models.CelestialLongitude, error) {
	if instant.IsZero() {
		return nil, models.ErrInvalidInstant
	}
	req := longitudesReq{JulianDay: astro.JulianDay(instant), Bodies: make([]string, len(bodies))}
	for i, b := range bodies {
		if !b.IsKnown() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedBody, b)
		}
		req.Bodies[i] = b.Key()
	}

	var resp longitudesResp
	if err := r.PostJSONWithRetry(ctx, "/longitudes", req, &resp); err != nil {
		return nil, err
	}

	// backends differ on key case; anything that is not a body is ignored
	byBody := make(map[models.Body]float64, len(resp.Longitudes))
	for k, v := range resp.Longitudes {
		if b, ok := models.ParseBody(k); ok {
			byBody[b] = v
		}
	}
	out := make([]models.CelestialLongitude, len(bodies))
	for i, b := range bodies {
		lon, ok := byBody[b]
		if !ok {
			return nil, fmt.Errorf("remote reply missing %s", b)
		}
		if math.IsNaN(lon) || math.IsInf(lon, 0) {
			return nil, fmt.Errorf("remote reply has non-finite longitude for %s", b)
		}
		out[i] = models.CelestialLongitude{Body: b, Longitude: astro.Normalize(lon)}
	}
	return out, nil
}
