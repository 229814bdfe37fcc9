package game

// Strategy selects which characters answer a shortcut topic.
type Strategy string

const (
	// StrategyAll: every available character answers, in priority order.
	StrategyAll Strategy = "all"
	// StrategyRandomOne: one available character, chosen uniformly.
	StrategyRandomOne Strategy = "random_one"
	// StrategyOrderedSequence: a scripted exchange played once.
	StrategyOrderedSequence Strategy = "ordered_sequence"
)

// Topic is a canned conversational topic answered without the director.
type Topic struct {
	Key      string
	Name     string
	Keywords []string
	Priority []string
	Strategy Strategy
	// Triggers holds the prompt each character answers for this topic.
	Triggers map[string]string
	// Sequence is the scripted exchange for StrategyOrderedSequence.
	Sequence []CharacterReplyAction
}

// DefaultTopics is the shortcut table for the case.
var DefaultTopics = []Topic{
	{
		Key:      "christmas_card",
		Name:     "Christmas card threat",
		Keywords: []string{"card", "christmas", "threat", "threatening", "pay up", "handwriting", "threatening card", "received"},
		Priority: []string{Tim, Fiona},
		Strategy: StrategyAll,
		Triggers: map[string]string{
			Tim:   "The detective is asking about the threatening Christmas card you received. Share your experience and emotional reaction to receiving it. After mentioning it initially, refer to it as 'the card', 'the threat', or 'it' - don't keep repeating 'Christmas card'.",
			Fiona: "Tim just shared his experience with the threatening card. As someone who witnessed his reaction, add your perspective on how the threat affected him and what you observed about his emotional state. Use natural language - refer to it as 'the threat', 'the message', or 'it'.",
		},
	},
	{
		Key:      "usb_drive",
		Name:     "Blue guitar-shaped USB drive",
		Keywords: []string{"usb", "guitar", "blue", "device", "usb-drive", "guitar-shaped", "flash drive", "memory stick", "silicone", "silicon"},
		Priority: []string{Pauline, Fiona},
		Strategy: StrategyAll,
		Triggers: map[string]string{
			Pauline: "The detective is asking about the USB drive Alex asked you to retrieve. Share what you know about getting this device for him - avoid repeating descriptive phrases, just call it 'the drive' or 'the USB'.",
			Fiona:   "Pauline just explained how she retrieved the USB drive for Alex. As his girlfriend, add your personal perspective about this device - why Alex considered it 'lucky' and how it relates to your relationship. Refer to it naturally as 'it', 'the device', or 'his drive' rather than repeating the full description.",
		},
	},
	{
		Key:      "alibi_845",
		Name:     "Alibis for 8:45 PM",
		Keywords: []string{"alibi", "8:45", "845", "where were", "where was", "time", "8.45", "whereabouts", "what were you doing"},
		Priority: []string{Tim, Fiona, Ronnie, Pauline},
		Strategy: StrategyAll,
		Triggers: map[string]string{
			Tim:     "The detective is asking for your alibi at 8:45 PM. Provide your cover story about where you were. Use natural language - after establishing the time, refer to it as 'then', 'at that time', etc.",
			Fiona:   "Tim just provided his whereabouts for that evening. Now share your own location at that time, and note any details that might corroborate or contradict what Tim said. Avoid repeating '8:45 PM' - use 'then', 'at that time', 'when it happened'.",
			Ronnie:  "Both Tim and Fiona have shared where they were that evening. Tell them your location at that crucial time, keeping in mind what the others have already revealed. Use varied language - 'then', 'at that moment', etc.",
			Pauline: "After hearing the others' accounts of that evening, explain where you were since you weren't at the party. Consider how your whereabouts fit with the timeline others have established. Use natural language variations.",
		},
	},
	{
		Key:      "money_debt",
		Name:     "Alex's debts and money troubles",
		Keywords: []string{"money", "debt", "debts", "business", "financial", "loan", "owe", "owed"},
		Priority: []string{Pauline, Ronnie},
		Strategy: StrategyAll,
		Triggers: map[string]string{
			Pauline: "The detective is asking about Alex's money and debts. As his secret business partner, share what you know about his financial situation.",
			Ronnie:  "The detective is asking about money and debts. You lent money to Alex - share details about his financial troubles.",
		},
	},
	{
		Key:      "arrival_time",
		Name:     "Arrival times and transportation to Alex's apartment",
		Keywords: []string{"arrived", "arrive", "arrival", "when did you", "what time", "how did you get", "come to", "came to", "get here", "get to alex", "transport", "transportation"},
		Priority: []string{Tim, Fiona, Ronnie, Pauline},
		Strategy: StrategyOrderedSequence,
		Sequence: []CharacterReplyAction{
			{CharacterKey: Ronnie, Trigger: "The detective is asking about when and how you arrived at Alex's apartment. Share your arrival time and transportation method."},
			{CharacterKey: Fiona, Trigger: "The detective is asking about when and how you arrived at Alex's apartment. As Alex's girlfriend, explain your arrival details."},
			{CharacterKey: Tim, Trigger: "The detective is asking about when and how you arrived at Alex's apartment. Give your cover story about your arrival time and transportation method."},
			{CharacterKey: Pauline, Trigger: "The detective is asking about arrivals. Mention that you saw Tim's blue Honda when you arrived at Alex's apartment."},
			{CharacterKey: Tim, Trigger: "Pauline mentioned seeing your blue Honda. Deny that it was your car - insist that everyone is mistaken about the Honda."},
			{CharacterKey: Fiona, Trigger: "Tim is denying the Honda was his. Support Pauline's account - confirm that you also saw Tim's blue Honda at Alex's apartment."},
			{CharacterKey: Ronnie, Trigger: "Both Pauline and Fiona have confirmed seeing Tim's Honda. Express skepticism about Tim's denials - say it's unlikely that everyone would be mistaken about the same detail."},
		},
		Triggers: map[string]string{
			Tim:     "The detective is asking about when and how you arrived at Alex's apartment. Give your cover story about your arrival time and transportation method.",
			Fiona:   "The detective is asking about when and how you arrived at Alex's apartment. As Alex's girlfriend, explain your arrival details.",
			Ronnie:  "The detective is asking about when and how you arrived at Alex's apartment. Share your arrival time and transportation method.",
			Pauline: "The detective is asking about when and how you arrived at Alex's apartment. Explain your arrival details and why you came.",
		},
	},
}
