package pricing

import "time"

// Result pairs an offer with its price or the reason it could not be priced.
type Result struct {
	Offer Offer
	Price Price
	Err   error
}

// PriceOffers prices every offer at now. A failing offer is reported in its
// own Result and does not stop the rest of the batch.
func PriceOffers(offers []Offer, strategies Strategies, now time.Time) []Result {
	results := make([]Result, 0, len(offers))
	for _, offer := range offers {
		price, err := ResolveCurrentPrice(offer, strategies.For(offer), now)
		results = append(results, Result{Offer: offer, Price: price, Err: err})
	}
	return results
}
