package redismanager

import "math/rand"

// chooseRandom picks a random address out of addrs, used to spread cluster
// seed-node dial attempts across the startup list instead of always hammering
// the first one.
func chooseRandom(addrs []string) string {
	if len(addrs) == 0 {
		return ""
	}

	return addrs[rand.Intn(len(addrs))]
}

// chooseRandomIndex picks a random index in [0, n). Callers must ensure
// n > 0.
func chooseRandomIndex(n int) int {
	return rand.Intn(n)
}
