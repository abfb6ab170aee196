package domain

// Step is a stage of the checkout flow.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)
