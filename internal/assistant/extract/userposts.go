package extract

import "regexp"

// UserPostsIndicators mark a request for the posts of one user.
var UserPostsIndicators = []string{
	"статьи у", "посты у", "какие статьи у", "какие посты у",
	"статьи пользователя", "посты пользователя",
	"статьи от", "посты от",
	"что писал", "что писала",
}

var whichPostsOf = regexp.MustCompile(`какие\s+(?:статьи|посты)\s+\S+`)

var userPostsTemplates = []*regexp.Regexp{
	regexp.MustCompile(`(?:статьи|посты)\s+у\s+@?` + name),
	regexp.MustCompile(`(?:статьи|посты)\s+пользователя\s+@?` + name),
	regexp.MustCompile(`(?:статьи|посты)\s+от\s+@?` + name),
	regexp.MustCompile(`что\s+писала?\s+@?` + name),
	regexp.MustCompile(`какие\s+(?:статьи|посты)\s+(?:у\s+)?@?` + name),
}

// IsUserPostsQuery reports whether text asks for the posts of a specific user.
func IsUserPostsQuery(text string) bool {
	norm := Normalize(text)
	return containsAny(norm, UserPostsIndicators) || whichPostsOf.MatchString(norm)
}

// UserPostsUsername extracts the author from a user-posts query.
func UserPostsUsername(text string) (string, bool) {
	return firstUsername(Normalize(text), userPostsTemplates)
}

var activityTemplates = []*regexp.Regexp{
	regexp.MustCompile(`что\s+нового\s+у\s+@?` + name),
	regexp.MustCompile(`активность\s+пользователя\s+@?` + name),
	regexp.MustCompile(`что\s+делает\s+@?` + name),
}

// ActivityUsername extracts the target of an activity query.
func ActivityUsername(text string) (string, bool) {
	return firstUsername(Normalize(text), activityTemplates)
}
