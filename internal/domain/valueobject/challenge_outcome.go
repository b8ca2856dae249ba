package valueobject

// ChallengeOutcome is the result of validating a step-up challenge response.
type ChallengeOutcome struct {
	value string
}

var (
	// ChallengeAccepted means the response proves the shopper passed the challenge.
	ChallengeAccepted = ChallengeOutcome{value: "accepted"}
	// ChallengeRejected means the response was well-formed but wrong; the shopper may retry.
	ChallengeRejected = ChallengeOutcome{value: "rejected"}
	// ChallengeMalformed means the response did not have the expected shape.
	ChallengeMalformed = ChallengeOutcome{value: "malformed"}
)

func (o ChallengeOutcome) String() string {
	return o.value
}

func (o ChallengeOutcome) Equal(other ChallengeOutcome) bool {
	return o.value == other.value
}
