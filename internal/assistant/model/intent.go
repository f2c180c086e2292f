package model

import "strings"

// Intent is the classified purpose of a request. Values are the wire names
// accepted in action_type.
type Intent string

const (
	IntentFAQ                         Intent = "faq"
	IntentFeatureExplanation          Intent = "feature_explanation"
	IntentGeneralChat                 Intent = "general_chat"
	IntentTourStep                    Intent = "interactive_tour_step"
	IntentPostSuggestion              Intent = "post_creation_suggestion"
	IntentSubscriptionRecommendations Intent = "subscription_recommendations"
	IntentCheckPostContent            Intent = "check_post_content"
	IntentAnalyzeProfile              Intent = "analyze_profile"
	IntentGeneratePostIdeas           Intent = "generate_post_ideas"
	IntentAnalyzeSentiment            Intent = "analyze_sentiment"
	IntentFindPostByKeyword           Intent = "find_post_by_keyword"
	IntentGetPostDetails              Intent = "get_post_details"
	IntentFindUserByUsername          Intent = "find_user_by_username"
	IntentGetUserActivity             Intent = "get_user_activity"
	IntentUserPostsQuery              Intent = "user_posts_query"
)

// AllIntents lists the whitelist in a stable order.
var AllIntents = []Intent{
	IntentFAQ,
	IntentFeatureExplanation,
	IntentGeneralChat,
	IntentTourStep,
	IntentPostSuggestion,
	IntentSubscriptionRecommendations,
	IntentCheckPostContent,
	IntentAnalyzeProfile,
	IntentGeneratePostIdeas,
	IntentAnalyzeSentiment,
	IntentFindPostByKeyword,
	IntentGetPostDetails,
	IntentFindUserByUsername,
	IntentGetUserActivity,
	IntentUserPostsQuery,
}

var knownIntents = func() map[Intent]struct{} {
	m := make(map[Intent]struct{}, len(AllIntents))
	for _, i := range AllIntents {
		m[i] = struct{}{}
	}
	return m
}()

// ParseIntent maps a wire name onto the whitelist. An empty name means
// general chat.
func ParseIntent(name string) (Intent, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return IntentGeneralChat, true
	}
	i := Intent(name)
	_, ok := knownIntents[i]
	return i, ok
}

func (i Intent) String() string {
	return string(i)
}

// IsLookup reports whether the intent is answered from site content rather
// than by the text generator.
func (i Intent) IsLookup() bool {
	switch i {
	case IntentFindPostByKeyword, IntentGetPostDetails, IntentFindUserByUsername,
		IntentGetUserActivity, IntentUserPostsQuery, IntentSubscriptionRecommendations:
		return true
	}
	return false
}
