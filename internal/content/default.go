package content

// Default returns the built-in scenario pack: a project-manager role
// navigating a sponsor, a tech lead, a union delegate, and a secretary
// across kickoff, escalation, and follow-up meetings.
func Default() *Catalog {
	seeds := []StakeholderSeed{
		{ID: "stk-sponsor", Name: "Marta Ibáñez", Role: "sponsor", Portrait: "portraits/sponsor.png", Trust: 60, Support: 10, MinSupport: -20, MaxSupport: 40},
		{ID: "stk-techlead", Name: "Jonas Wirth", Role: "techlead", Portrait: "portraits/techlead.png", Trust: 50, Support: 0, MinSupport: -30, MaxSupport: 30},
		{ID: "stk-delegate", Name: "Pilar Quintana", Role: "delegate", Portrait: "portraits/delegate.png", Trust: 40, Support: -5, MinSupport: -40, MaxSupport: 20},
		{ID: "stk-secretary", Name: "Ana Riquelme", Role: "secretary", Portrait: "portraits/secretary.png", Trust: 50, Support: 0, MinSupport: 0, MaxSupport: 0},
	}

	nodes := []Node{
		{
			ID:              "node-kickoff-1",
			StakeholderRole: "sponsor",
			Dialogue:        "Good morning, {playerName}. The board signed off yesterday. I want a realistic delivery plan before anyone starts promising dates.",
			Options: []Option{
				{
					ID:   "opt-kickoff-plan",
					Text: "I'll have a staged plan with buffer on your desk by Friday.",
					Consequences: Consequences{
						TrustChange:      5,
						DialogueResponse: "Good. Staged and buffered is how we survive the board.",
						Commitment:       &CommitmentSpec{Description: "Deliver the staged delivery plan", DueInDays: 4},
					},
					ExpectedActions: []ExpectedActionSpec{
						{ActionType: "deliver_document", TargetRef: "doc-delivery-plan", RuleID: "rule-kickoff-plan"},
					},
				},
				{
					ID:   "opt-kickoff-accelerate",
					Text: "We can compress the schedule if you free up budget now.",
					Consequences: Consequences{
						TrustChange:      -5,
						BudgetChange:     15000,
						DialogueResponse: "You'll get the budget. Don't make me regret it.",
					},
				},
			},
		},
		{
			ID:              "node-kickoff-2",
			StakeholderRole: "sponsor",
			Dialogue:        "One more thing, {playerName}: the union delegate has been asking about the overtime clause. Handle it before it reaches the press.",
			Options: []Option{
				{
					ID:   "opt-kickoff-meet-delegate",
					Text: "I'll meet the delegate this week and walk her through the clause.",
					Consequences: Consequences{
						TrustChange:      3,
						DialogueResponse: "That's the right instinct. Keep it off my desk.",
					},
					ExpectedActions: []ExpectedActionSpec{
						{ActionType: "meet_stakeholder", TargetRef: "delegate", RuleID: "rule-kickoff-delegate"},
					},
				},
				{
					ID:   "opt-kickoff-defer",
					Text: "Overtime is an HR matter. I'd rather stay focused on delivery.",
					Consequences: Consequences{
						TrustChange:      -4,
						ReputationChange: -3,
						DialogueResponse: "Everything on this project is your matter now.",
					},
				},
			},
		},
		{
			ID:              "node-kickoff-3",
			StakeholderRole: "sponsor",
			Dialogue:        "Last item. Progress reporting: weekly, written, no surprises. Agreed?",
			Options: []Option{
				{
					ID:   "opt-kickoff-report",
					Text: "Agreed. First report goes out Monday.",
					Consequences: Consequences{
						TrustChange:           4,
						ProjectProgressChange: 5,
						DialogueResponse:      "Then we understand each other. Good luck, {playerName}.",
					},
					ExpectedActions: []ExpectedActionSpec{
						{ActionType: "send_report", TargetRef: "report-weekly", RuleID: "rule-kickoff-report"},
					},
				},
			},
		},
		{
			ID:              "node-budget-crisis",
			StakeholderRole: "sponsor",
			Dialogue:        "{playerName}, finance flagged the burn rate. We are past the line. I need to hear how you stop the bleeding, today.",
			Options: []Option{
				{
					ID:   "opt-crisis-cut",
					Text: "I'll cut the contractor hours and descope the reporting module.",
					Consequences: Consequences{
						BudgetChange:          8000,
						ProjectProgressChange: -5,
						DialogueResponse:      "Painful but defensible. Put it in writing.",
					},
					ExpectedActions: []ExpectedActionSpec{
						{ActionType: "deliver_document", TargetRef: "doc-descope-memo", RuleID: "rule-crisis-memo"},
					},
				},
				{
					ID:   "opt-crisis-ask",
					Text: "The burn is front-loaded. Hold the line two weeks and it corrects itself.",
					Consequences: Consequences{
						TrustChange:      -8,
						DialogueResponse: "Two weeks. After that I descope it myself.",
					},
				},
			},
		},
		{
			ID:              "node-techlead-checkin",
			StakeholderRole: "techlead",
			Dialogue:        "Hey {playerName}. The integration branch is a mess and the team knows it. What do you want to hear: the truth or the status report?",
			Options: []Option{
				{
					ID:   "opt-checkin-truth",
					Text: "The truth. Always.",
					Consequences: Consequences{
						TrustChange:           6,
						SupportChange:         5,
						ProjectProgressChange: 3,
						DialogueResponse:      "Then grab a chair, this will take a while.",
					},
				},
				{
					ID:   "opt-checkin-status",
					Text: "Give me the version I can forward to the sponsor.",
					Consequences: Consequences{
						TrustChange:      -3,
						SupportChange:    -4,
						DialogueResponse: "Sure. Green across the board, as always.",
					},
				},
			},
		},
		{
			ID:              "node-delegate-overtime",
			StakeholderRole: "delegate",
			Dialogue:        "So the famous {playerName} finally has time for us. The overtime clause, as written, is not going to fly with my people.",
			Options: []Option{
				{
					ID:   "opt-overtime-negotiate",
					Text: "Walk me through the sticking points. I'll take them to the sponsor myself.",
					Consequences: Consequences{
						TrustChange:      8,
						SupportChange:    6,
						DialogueResponse: "Huh. That's more than your predecessor ever offered.",
						Commitment:       &CommitmentSpec{Description: "Raise the overtime clause with the sponsor", DueInDays: 3},
					},
					ExpectedActions: []ExpectedActionSpec{
						{ActionType: "meet_stakeholder", TargetRef: "sponsor", RuleID: "rule-overtime-escalate"},
					},
				},
				{
					ID:   "opt-overtime-dismiss",
					Text: "The clause is standard. Signed by your own leadership, I might add.",
					Consequences: Consequences{
						TrustChange:      -10,
						SupportChange:    -8,
						ReputationChange: -5,
						DialogueResponse: "Leadership signs a lot of things. The floor remembers who pushed them.",
					},
				},
			},
		},
	}

	sequences := []Sequence{
		{
			ID:              "seq-kickoff",
			StakeholderRole: "sponsor",
			Nodes:           []NodeID{"node-kickoff-1", "node-kickoff-2", "node-kickoff-3"},
			InitialDialogue: "Marta waves you into the glass meeting room. The board papers are still on the table.",
			FinalDialogue:   "Marta gathers her papers. \"Weekly reports, {playerName}. No surprises.\"",
			Inevitable:      true,
		},
		{
			ID:              "seq-budget-crisis",
			StakeholderRole: "sponsor",
			Nodes:           []NodeID{"node-budget-crisis"},
			InitialDialogue: "Marta calls you in without an appointment. Finance printouts cover the table.",
			FinalDialogue:   "\"Numbers, {playerName}. Every Friday until this is fixed.\"",
			Contingent:      true,
			Rules:           &ContingentRules{BudgetBelow: intRef(0)},
		},
		{
			ID:              "seq-delegate-escalation",
			StakeholderRole: "delegate",
			Nodes:           []NodeID{"node-delegate-overtime"},
			InitialDialogue: "Pilar is waiting by the coffee machine, arms crossed.",
			FinalDialogue:   "Pilar nods once and heads back to the floor.",
			Contingent:      true,
			Rules:           &ContingentRules{TrustBelow: intRef(30)},
		},
		{
			ID:              "seq-techlead-checkin",
			StakeholderRole: "techlead",
			Nodes:           []NodeID{"node-techlead-checkin"},
			InitialDialogue: "Jonas looks up from a wall of terminal windows.",
			FinalDialogue:   "Jonas turns back to his screens. \"Same time next week?\"",
		},
		{
			ID:              "seq-delegate-meeting",
			StakeholderRole: "delegate",
			Nodes:           []NodeID{"node-delegate-overtime"},
			InitialDialogue: "Pilar clears a chair for you in the crowded union office.",
			FinalDialogue:   "Pilar walks you to the door. The floor noise swallows the rest.",
		},
	}

	schedule := map[SequenceID]TriggerPoint{
		"seq-kickoff": {Day: 1, Slot: SlotMorning},
	}

	cat, err := NewCatalog(seeds, nodes, sequences, schedule)
	if err != nil {
		// The built-in pack is validated by tests; a broken build is a bug.
		panic(err)
	}
	return cat
}

func intRef(v int) *int { return &v }
