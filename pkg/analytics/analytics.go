// Package analytics derives plain-text signals from converted Markdown: the
// cleansed feed text used for tagging and keyword frequencies.
package analytics

import (
	"regexp"
	"strings"
	"unicode"
)

type Analytics struct{}

// stopwords are ignored when counting keywords. The tail of the list is web
// navigation noise that readability sometimes leaves behind.
var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(stopwordList) {
		set[w] = struct{}{}
	}
	return set
}()

const stopwordList = `
a about above across after afterwards again against all almost alone
along already also although always am among amongst amount an and
another any anyhow anyone anything anyway anywhere are aren't around as
at back be became because become becomes becoming been before beforehand
behind being below beside besides between beyond both but by can can't
cannot could couldn't did didn't do does doesn't doing don't done down
during each either else elsewhere enough entirely especially etc even
ever every everyone everything everywhere few for former formerly from
further had hadn't has hasn't have haven't having he he'd he'll he's
hence her here hereafter hereby herein here's hereupon hers herself him
himself his how however i i'd i'll i'm i've if in indeed into is isn't
it it's its itself just keep last latter latterly least less let let's
like likely made make many may maybe me meanwhile might mine more
moreover most mostly much must mustn't my myself neither never
nevertheless next no nobody none noone nor not nothing now nowhere of
off often on once one only onto or other others otherwise our ours
ourselves out over own part per perhaps please put rather re same see
seem seemed seeming seems several she she'd she'll she's should
shouldn't since so some somehow someone something sometime sometimes
somewhere still such take than that that's the their theirs them
themselves then thence there thereafter thereby therefore therein
there's thereupon these they they'd they'll they're they've this those
through throughout thru thus to together too toward towards under until
up upon us use very via was wasn't we we'd we'll we're we've well were
weren't what whatever what's when whence whenever where whereafter
whereas whereby wherein where's whereupon wherever whether which while
whither who who'd whoever who'll who's whose why with within without
won't would wouldn't yet you you'd you'll you're you've your yours
yourself yourselves ain't it'll shan't that'll when's click clickable
clicked clicking button link menu redirected redirect redirecting page
pages website site home homepage search searching searched loading
loaded load loads
`

func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

var (
	// table rows and "-" spans broken by a newline
	tableOrDashSpan  = regexp.MustCompile(`\|.*[^\n].*\||-.\n.*-`)
	controlOrBracket = regexp.MustCompile(`\n|\r|\t|\s{2,}|\[|\]`)
	bareOrParenURL   = regexp.MustCompile(`\(?https?://[^\s]+\)?`)
	inlineFence      = regexp.MustCompile("```.*?```")
	multiSpace       = regexp.MustCompile(`\s{2,}`)

	fullWidth = strings.NewReplacer("\u3000", " ", "\uff08", "(", "\uff09", ")")
)

// CleanseText reduces Markdown to a single line of prose for classification.
// Tables, URLs and fenced code are dropped and whitespace is collapsed.
func (a *Analytics) CleanseText(markdown string) string {
	text := tableOrDashSpan.ReplaceAllString(markdown, " ")
	text = controlOrBracket.ReplaceAllString(text, " ")
	text = bareOrParenURL.ReplaceAllString(text, "")
	text = inlineFence.ReplaceAllString(text, " ")
	text = fullWidth.Replace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// WordFrequency counts the non-stopword words of text. Words are lowercased
// and stripped of surrounding punctuation; letters of any script are kept.
func (a *Analytics) WordFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" || IsStopword(word) {
			continue
		}
		freq[word]++
	}
	return freq
}
