package utils

import (
	"log"
	"os"
	"sync"
	"time"
)

var (
	restaurantLoc     *time.Location
	restaurantLocOnce sync.Once
)

// RestaurantLocation returns the restaurant's timezone, RESTAURANT_TZ or
// America/Santiago by default. Block validation ("is this start time in
// the past?") must use this, never server-local time.
func RestaurantLocation() *time.Location {
	restaurantLocOnce.Do(func() {
		name := os.Getenv("RESTAURANT_TZ")
		if name == "" {
			name = "America/Santiago"
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Printf("Warning: cannot load timezone %q, falling back to UTC: %v", name, err)
			loc = time.UTC
		}
		restaurantLoc = loc
	})
	return restaurantLoc
}

// RestaurantNow is the current time in the restaurant's timezone.
func RestaurantNow() time.Time {
	return time.Now().In(RestaurantLocation())
}
