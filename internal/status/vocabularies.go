package status

var (
	Agent = New("agent",
		State{Value: "pending", Label: "Pending", Color: Yellow, Icon: "clock"},
		State{Value: "approved", Label: "Approved", Color: Green, Icon: "check-circle"},
	)

	Question = New("question",
		State{Value: "pending", Label: "Pending", Color: Yellow, Icon: "clock"},
		State{Value: "answered", Label: "Answered", Color: Green, Icon: "message-circle"},
		State{Value: "closed", Label: "Closed", Color: Gray, Icon: "archive"},
	)

	Valuation = New("valuation",
		State{Value: "pending", Label: "Pending", Color: Yellow, Icon: "clock"},
		State{Value: "in_review", Label: "In Review", Color: Blue, Icon: "search"},
		State{Value: "completed", Label: "Completed", Color: Green, Icon: "check-circle"},
		State{Value: "cancelled", Label: "Cancelled", Color: Red, Icon: "x-circle"},
	)

	DownloadInterest = New("download_interest",
		State{Value: "new", Label: "New", Color: Blue, Icon: "sparkles"},
		State{Value: "contacted", Label: "Contacted", Color: Yellow, Icon: "phone"},
		State{Value: "qualified", Label: "Qualified", Color: Purple, Icon: "star"},
		State{Value: "converted", Label: "Converted", Color: Green, Icon: "check-circle"},
		State{Value: "not_interested", Label: "Not Interested", Color: Gray, Icon: "x-circle"},
	)

	Application = New("application",
		State{Value: "pending", Label: "Pending", Color: Yellow, Icon: "clock"},
		State{Value: "reviewed", Label: "Reviewed", Color: Blue, Icon: "eye"},
		State{Value: "accepted", Label: "Accepted", Color: Green, Icon: "check-circle"},
		State{Value: "rejected", Label: "Rejected", Color: Red, Icon: "x-circle"},
	)

	JobPosting = New("job_posting",
		State{Value: "active", Label: "Active", Color: Green},
		State{Value: "archived", Label: "Archived", Color: Gray},
	)

	ListingIntent = New("listing_intent",
		State{Value: "sale", Label: "For Sale", Color: Blue},
		State{Value: "rent", Label: "For Rent", Color: Purple},
		State{Value: "off-plan", Label: "Off-Plan", Color: Orange},
	)

	PropertyStatus = New("property_status",
		State{Value: "ready", Label: "Ready", Color: Green},
		State{Value: "off-plan", Label: "Off-Plan", Color: Orange},
		State{Value: "under-construction", Label: "Under Construction", Color: Yellow},
	)
)

// Approval maps the agent approved flag onto the agent vocabulary.
func Approval(approved bool) Badge {
	if approved {
		return Agent.Badge("approved")
	}
	return Agent.Badge("pending")
}

// All lists every vocabulary, keyed by kind.
func All() map[string]*Vocabulary {
	out := make(map[string]*Vocabulary)
	for _, v := range []*Vocabulary{Agent, Question, Valuation, DownloadInterest, Application, JobPosting, ListingIntent, PropertyStatus} {
		out[v.Kind()] = v
	}
	return out
}
