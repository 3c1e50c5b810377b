package catalog

import "github.com/sells-group/outreach-cli/internal/model"

// Contexts built into the default catalog.
const (
	ContextLocalBusiness = "local-business"
	ContextSaaS          = "saas"
)

// builtinSequences returns the default sequence library. Order matters:
// recommendation ties resolve in catalog order.
func builtinSequences() []model.SequenceDefinition {
	return []model.SequenceDefinition{
		{
			ID:       "local-no-website-hot",
			Context:  ContextLocalBusiness,
			Priority: model.ClassificationHot,
			Name:     "No Website Quick Win",
			Tags:     []string{"no-website"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "Customers can't find {{business_name}} online", Body: "Hi {{contact_name}},\n\nI searched for {{business_name}} and couldn't find a website. Most customers check online before calling — you're likely losing work to competitors who show up.\n\nI put together a quick mockup of what your site could look like. Want me to send it over?"},
				{DayOffset: 2, Action: "email", Subject: "That mockup for {{business_name}}", Body: "Hi {{contact_name}},\n\nFollowing up on the mockup I mentioned. It takes about a week to get a site like this live. Worth a 10-minute call?"},
				{DayOffset: 5, Action: "call", Subject: "", Body: "Call to walk through the mockup and answer questions."},
			},
		},
		{
			ID:       "local-upgrade-hot",
			Context:  ContextLocalBusiness,
			Priority: model.ClassificationHot,
			Name:     "Website Upgrade Audit",
			Tags:     []string{"upgrade", "audit"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "Free audit: 3 things holding {{business_name}}'s site back", Body: "Hi {{contact_name}},\n\nI ran a quick audit on your site and found a few issues that are likely costing you customers. Happy to share the full report, no strings attached."},
				{DayOffset: 3, Action: "email", Subject: "Your site audit (expires Friday)", Body: "Hi {{contact_name}},\n\nStill have that audit for {{business_name}} on my desk. Want me to walk you through it this week?"},
			},
		},
		{
			ID:       "local-mobile-warm",
			Context:  ContextLocalBusiness,
			Priority: model.ClassificationWarm,
			Name:     "Mobile Fix Outreach",
			Tags:     []string{"upgrade", "pain-point"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "{{business_name}} on a phone screen", Body: "Hi {{contact_name}},\n\nOver half of local searches happen on phones, and your site is hard to use on one. A mobile refresh usually pays for itself in a month or two."},
				{DayOffset: 4, Action: "email", Subject: "Quick mobile check for {{business_name}}", Body: "Hi {{contact_name}},\n\nTried your site on a phone lately? I can show you a before/after in 10 minutes."},
				{DayOffset: 8, Action: "email", Subject: "Last note on the mobile fix", Body: "Hi {{contact_name}},\n\nClosing the loop — if mobile isn't a priority right now, no worries. Door's open when it is."},
			},
		},
		{
			ID:       "local-social-proof-warm",
			Context:  ContextLocalBusiness,
			Priority: model.ClassificationWarm,
			Name:     "Case Study Nudge",
			Tags:     []string{"social-proof", "case-study"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "How a {{industry}} shop near you doubled calls", Body: "Hi {{contact_name}},\n\nWe recently rebuilt a site for a business a lot like {{business_name}} — calls doubled in 60 days. Happy to share the numbers."},
				{DayOffset: 4, Action: "email", Subject: "The case study I mentioned", Body: "Hi {{contact_name}},\n\nHere's the case study. If you'd like the same playbook applied to {{business_name}}, let's talk."},
			},
		},
		{
			ID:       "local-nurture-cold",
			Context:  ContextLocalBusiness,
			Priority: model.ClassificationCold,
			Name:     "Slow Nurture",
			Tags:     []string{"nurture"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "A free resource for {{business_name}}", Body: "Hi {{contact_name}},\n\nNo pitch — just a short checklist we give local businesses for getting more out of their web presence. Thought it might be useful."},
				{DayOffset: 7, Action: "email", Subject: "One idea for {{business_name}}", Body: "Hi {{contact_name}},\n\nOne thing from the checklist that applies to {{business_name}}: keeping your hours and reviews current is the cheapest win there is."},
				{DayOffset: 14, Action: "email", Subject: "Staying in touch", Body: "Hi {{contact_name}},\n\nI'll stop filling your inbox. If a website project ever comes up, you know where to find me."},
			},
		},
		{
			ID:       "local-pain-point-cold",
			Context:  ContextLocalBusiness,
			Priority: model.ClassificationCold,
			Name:     "Pain Point Opener",
			Tags:     []string{"pain-point"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "Noticed something about {{business_name}}", Body: "Hi {{contact_name}},\n\nI was researching {{industry}} businesses in your area and noticed a gap that's probably costing you customers. Mind if I share what I found?"},
				{DayOffset: 5, Action: "email", Subject: "That gap I mentioned", Body: "Hi {{contact_name}},\n\nShort version: {{pain_point}}. It's fixable in a week. Want the details?"},
			},
		},
		{
			ID:       "saas-demo-hot",
			Context:  ContextSaaS,
			Priority: model.ClassificationHot,
			Name:     "Direct Demo Ask",
			Tags:     []string{"demo"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "15 minutes this week?", Body: "Hi {{contact_name}},\n\n{{business_name}} looks like a strong fit for what we do. Can I show you a 15-minute demo this week?"},
				{DayOffset: 3, Action: "email", Subject: "Re: 15 minutes this week?", Body: "Hi {{contact_name}},\n\nBumping this up — happy to work around your calendar."},
			},
		},
		{
			ID:       "saas-social-proof-warm",
			Context:  ContextSaaS,
			Priority: model.ClassificationWarm,
			Name:     "Peer Proof Sequence",
			Tags:     []string{"social-proof", "case-study"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "How teams like {{business_name}} use us", Body: "Hi {{contact_name}},\n\nThree companies in {{industry}} started using us this quarter. Here's what changed for them."},
				{DayOffset: 4, Action: "email", Subject: "The numbers behind that story", Body: "Hi {{contact_name}},\n\nSharing the case study with actual numbers. If the results look relevant, let's compare notes."},
			},
		},
		{
			ID:       "saas-nurture-cold",
			Context:  ContextSaaS,
			Priority: model.ClassificationCold,
			Name:     "Education Drip",
			Tags:     []string{"nurture"},
			Steps: []model.SequenceStep{
				{DayOffset: 0, Action: "email", Subject: "A benchmark report for {{industry}}", Body: "Hi {{contact_name}},\n\nWe publish a yearly benchmark for {{industry}} teams. Sending it over in case it's useful — no follow-up expected."},
				{DayOffset: 10, Action: "email", Subject: "One stat worth stealing", Body: "Hi {{contact_name}},\n\nThe stat most readers flag from that report: top performers respond to inbound leads within 5 minutes. Curious how {{business_name}} handles that today."},
			},
		},
	}
}
