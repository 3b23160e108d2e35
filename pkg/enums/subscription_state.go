package enums

// SubscriptionState is the derived access state reported by the subscription
// policy. Unlike SubscriptionStatus it is never persisted.
type SubscriptionState string

const (
	SubscriptionStateNone    SubscriptionState = "none"
	SubscriptionStateActive  SubscriptionState = "active"
	SubscriptionStateExpired SubscriptionState = "expired"
)

// String implements fmt.Stringer.
func (s SubscriptionState) String() string {
	return string(s)
}
