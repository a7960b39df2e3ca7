// Package capture adapts device capabilities (camera, geolocation, social
// sharing) to the report and profile flows.
//
// A browser client performs the capture and uploads the outcome as a
// multipart form: a "photo" file plus "latitude"/"longitude" fields, or
// "photo_error"/"location_error" set to "denied" or "unavailable" when the
// device refused.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrDenied means the user refused the capability permission.
	ErrDenied = errors.New("capability permission denied")
	// ErrUnavailable means the capability produced nothing.
	ErrUnavailable = errors.New("capability unavailable")
	// ErrUnsupported means the provider cannot perform the request.
	ErrUnsupported = errors.New("capability unsupported")

	ErrTooLarge        = errors.New("photo too large")
	ErrNotImage        = errors.New("photo is not an image")
	ErrInvalidPosition = errors.New("position out of range")
)

// Photo is a captured image.
type Photo struct {
	Data        []byte
	ContentType string
}

// Position is a WGS84 coordinate.
type Position struct {
	Latitude  float64
	Longitude float64
}

// PhotoCapture yields a photo or ErrDenied/ErrUnavailable.
type PhotoCapture interface {
	Capture(ctx context.Context) (Photo, error)
}

// Geolocator yields the device position or ErrDenied/ErrUnavailable.
type Geolocator interface {
	Position(ctx context.Context) (Position, error)
}

// DefaultMaxPhotoBytes bounds uploaded photos.
const DefaultMaxPhotoBytes = 5 << 20

// Form reads capture outcomes from a multipart request. It implements both
// PhotoCapture and Geolocator.
type Form struct {
	req      *http.Request
	maxBytes int64
}

// NewForm wraps r. maxBytes <= 0 uses DefaultMaxPhotoBytes.
func NewForm(r *http.Request, maxBytes int64) *Form {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	return &Form{req: r, maxBytes: maxBytes}
}

// Capture reads the "photo" file part.
func (f *Form) Capture(context.Context) (Photo, error) {
	if err := refusal(f.req.FormValue("photo_error")); err != nil {
		return Photo{}, err
	}
	file, _, err := f.req.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return Photo{}, ErrUnavailable
	}
	if err != nil {
		return Photo{}, fmt.Errorf("read photo: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, f.maxBytes+1))
	if err != nil {
		return Photo{}, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return Photo{}, ErrUnavailable
	}
	if int64(len(data)) > f.maxBytes {
		return Photo{}, ErrTooLarge
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return Photo{}, ErrNotImage
	}
	return Photo{Data: data, ContentType: ct}, nil
}

// Position reads the "latitude" and "longitude" fields.
func (f *Form) Position(context.Context) (Position, error) {
	if err := refusal(f.req.FormValue("location_error")); err != nil {
		return Position{}, err
	}
	latS := strings.TrimSpace(f.req.FormValue("latitude"))
	lonS := strings.TrimSpace(f.req.FormValue("longitude"))
	if latS == "" || lonS == "" {
		return Position{}, ErrUnavailable
	}
	lat, err1 := strconv.ParseFloat(latS, 64)
	lon, err2 := strconv.ParseFloat(lonS, 64)
	if err1 != nil || err2 != nil {
		return Position{}, ErrInvalidPosition
	}
	if !finite(lat) || !finite(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Position{}, ErrInvalidPosition
	}
	return Position{Latitude: lat, Longitude: lon}, nil
}

// finite rejects NaN and the infinities, which ParseFloat accepts and which
// the range comparisons let through.
func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func refusal(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return nil
	case "denied", "permission_denied":
		return ErrDenied
	default:
		return ErrUnavailable
	}
}
