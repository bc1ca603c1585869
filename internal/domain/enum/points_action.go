package enum

// PointsAction classifies a points ledger entry.
type PointsAction string

const (
	PointsActionCheckIn    PointsAction = "check-in"
	PointsActionInvitation PointsAction = "invitation"
	PointsActionPayment    PointsAction = "payment"
)

func (a PointsAction) String() string {
	return string(a)
}
