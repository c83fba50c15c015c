// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is a purchasable plan listed on the membership page.
type Membership struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	BillingCycle string             `bson:"billing_cycle" json:"billingCycle"`
	Perks        []string           `bson:"perks" json:"perks"`
	Terms        string             `bson:"terms,omitempty" json:"terms,omitempty"`
	Order        int                `bson:"order" json:"order"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Billing cycles
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingOneTime = "one-time"
)

// AllBillingCycles returns every valid billing cycle.
func AllBillingCycles() []string {
	return []string{BillingMonthly, BillingYearly, BillingOneTime}
}

// IsValidBillingCycle reports whether s is a billing cycle.
func IsValidBillingCycle(s string) bool {
	for _, v := range AllBillingCycles() {
		if v == s {
			return true
		}
	}
	return false
}
