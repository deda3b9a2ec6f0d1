package geocoding

import (
	"log"
	"time"
)

func logResponse(statusCode int, duration time.Duration, resultCount int) {
	log.Printf("[geocoding] response status=%d duration=%dms results=%d",
		statusCode, duration.Milliseconds(), resultCount)
}
