package jobs

import (
	"log"

	"github.com/dgotpservice/dg-social-panel/services"
)

// RefreshCatalog forces the next catalog read to hit the upstream panel so
// price or service changes show up without waiting for the cache to expire.
func RefreshCatalog() {
	services.RefreshCatalog()
	log.Println("Catalog cache invalidated.")
}
