package enum

// ReceiptType identifies the product line and operation that produced a receipt.
// The values are stable strings persisted on receipt rows; legacy rows may carry
// the older short forms listed at the bottom.
type ReceiptType string

const (
	// Membership
	ReceiptNewMembership     ReceiptType = "newMembership"
	ReceiptMembershipRenewal ReceiptType = "membershipRenewal"
	ReceiptMembershipUpgrade ReceiptType = "membershipUpgrade"

	// Personal training
	ReceiptNewPT          ReceiptType = "newPT"
	ReceiptPTRenewal      ReceiptType = "ptRenewal"
	ReceiptPTPayRemaining ReceiptType = "ptPayRemaining"

	// Group classes
	ReceiptNewGroupClass          ReceiptType = "newGroupClass"
	ReceiptGroupClassRenewal      ReceiptType = "groupClassRenewal"
	ReceiptGroupClassDayUse       ReceiptType = "groupClassDayUse"
	ReceiptGroupClassPayRemaining ReceiptType = "groupClassPayRemaining"

	// Physiotherapy
	ReceiptNewPhysiotherapy          ReceiptType = "newPhysiotherapy"
	ReceiptPhysiotherapyRenewal      ReceiptType = "physiotherapyRenewal"
	ReceiptPhysiotherapyPayRemaining ReceiptType = "physiotherapyPayRemaining"

	// Nutrition
	ReceiptNewNutrition          ReceiptType = "newNutrition"
	ReceiptNutritionRenewal      ReceiptType = "nutritionRenewal"
	ReceiptNutritionPayRemaining ReceiptType = "nutritionPayRemaining"

	// Day use
	ReceiptDayUse ReceiptType = "dayUse"

	// Legacy values kept readable for old rows
	ReceiptLegacyMember ReceiptType = "member"
	ReceiptLegacyPT     ReceiptType = "pt"
	ReceiptLegacyInBody ReceiptType = "inBody"
)

func (t ReceiptType) String() string {
	return string(t)
}
