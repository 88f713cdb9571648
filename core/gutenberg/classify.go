package gutenberg

import (
	"strings"

	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// MatchKind selects how a title rule compares a line with its pattern.
type MatchKind int

const (
	// MatchExact requires the whole line to equal the pattern.
	MatchExact MatchKind = iota
	// MatchPrefix requires the line to start with the pattern.
	MatchPrefix
)

func (m MatchKind) String() string {
	if m == MatchExact {
		return "exact"
	}
	return "prefix"
}

// Title is a recognized book header.
type Title struct {
	Name      string
	Testament scripture.Testament
}

// TitleRule is one entry of the ordered title table.
type TitleRule struct {
	Pattern   string
	Name      string
	Testament scripture.Testament
	Match     MatchKind
}

// Matches reports whether the trimmed line satisfies the rule.
func (r TitleRule) Matches(line string) bool {
	if r.Match == MatchExact {
		return line == r.Pattern
	}
	return strings.HasPrefix(line, r.Pattern)
}

// otherwiseCalled marks alternate-title annotations ("Otherwise Called:").
const otherwiseCalled = "Otherwise Called"

func ot(pattern, name string, m MatchKind) TitleRule {
	return TitleRule{Pattern: pattern, Name: name, Testament: scripture.TestamentOld, Match: m}
}

func nt(pattern, name string) TitleRule {
	return TitleRule{Pattern: pattern, Name: name, Testament: scripture.TestamentNew, Match: MatchPrefix}
}

// titleRules is evaluated top to bottom; the first matching rule wins.
// Later groups exist only because earlier, looser patterns would shadow them.
var titleRules = []TitleRule{
	// Samuel titles are exact so the numbered-book prefixes cannot claim them.
	ot("The First Book of Samuel", "1 Samuel", MatchExact),
	ot("The Second Book of Samuel", "2 Samuel", MatchExact),

	// Books printed as a single bare word in this edition.
	ot("Hosea", "Hosea", MatchExact),
	ot("Joel", "Joel", MatchExact),
	ot("Amos", "Amos", MatchExact),
	ot("Obadiah", "Obadiah", MatchExact),
	ot("Jonah", "Jonah", MatchExact),
	ot("Micah", "Micah", MatchExact),
	ot("Nahum", "Nahum", MatchExact),
	ot("Habakkuk", "Habakkuk", MatchExact),
	ot("Zephaniah", "Zephaniah", MatchExact),
	ot("Haggai", "Haggai", MatchExact),
	ot("Zechariah", "Zechariah", MatchExact),
	ot("Malachi", "Malachi", MatchExact),
	ot("Ezra", "Ezra", MatchExact),
	ot("Ecclesiastes", "Ecclesiastes", MatchExact),

	ot("The First Book of Moses:", "Genesis", MatchPrefix),
	ot("The Second Book of Moses:", "Exodus", MatchPrefix),
	ot("The Third Book of Moses:", "Leviticus", MatchPrefix),
	ot("The Fourth Book of Moses:", "Numbers", MatchPrefix),
	ot("The Fifth Book of Moses:", "Deuteronomy", MatchPrefix),
	ot("The Book of Joshua", "Joshua", MatchPrefix),
	ot("The Book of Judges", "Judges", MatchPrefix),
	ot("The Book of Ruth", "Ruth", MatchPrefix),
	ot("The First Book of the Chronicles", "1 Chronicles", MatchPrefix),
	ot("The Second Book of the Chronicles", "2 Chronicles", MatchPrefix),
	ot("The Book of Nehemiah", "Nehemiah", MatchPrefix),
	ot("The Book of Esther", "Esther", MatchPrefix),
	ot("The Book of Job", "Job", MatchPrefix),
	ot("The Book of Psalms", "Psalms", MatchPrefix),
	ot("The Proverbs", "Proverbs", MatchPrefix),
	ot("The Song of Solomon", "Song of Solomon", MatchPrefix),
	ot("The Book of the Prophet Isaiah", "Isaiah", MatchPrefix),
	ot("The Book of the Prophet Jeremiah", "Jeremiah", MatchPrefix),
	ot("The Lamentations of Jeremiah", "Lamentations", MatchPrefix),
	ot("The Book of the Prophet Ezekiel", "Ezekiel", MatchPrefix),
	ot("The Book of Daniel", "Daniel", MatchPrefix),

	// Kings comes after every other Old Testament rule: "Book of the Kings"
	// also shows up inside the Samuel headers.
	ot("The First Book of the Kings", "1 Kings", MatchPrefix),
	ot("The Second Book of the Kings", "2 Kings", MatchPrefix),

	nt("The Gospel According to Saint Matthew", "Matthew"),
	nt("The Gospel According to Saint Mark", "Mark"),
	nt("The Gospel According to Saint Luke", "Luke"),
	nt("The Gospel According to Saint John", "John"),
	nt("The Acts of the Apostles", "Acts"),
	nt("The Epistle of Paul the Apostle to the Romans", "Romans"),
	nt("The First Epistle of Paul the Apostle to the Corinthians", "1 Corinthians"),
	nt("The Second Epistle of Paul the Apostle to the Corinthians", "2 Corinthians"),
	nt("The Epistle of Paul the Apostle to the Galatians", "Galatians"),
	nt("The Epistle of Paul the Apostle to the Ephesians", "Ephesians"),
	nt("The Epistle of Paul the Apostle to the Philippians", "Philippians"),
	nt("The Epistle of Paul the Apostle to the Colossians", "Colossians"),
	nt("The First Epistle of Paul the Apostle to the Thessalonians", "1 Thessalonians"),
	nt("The Second Epistle of Paul the Apostle to the Thessalonians", "2 Thessalonians"),
	nt("The First Epistle of Paul the Apostle to Timothy", "1 Timothy"),
	nt("The Second Epistle of Paul the Apostle to Timothy", "2 Timothy"),
	nt("The Epistle of Paul the Apostle to Titus", "Titus"),
	nt("The Epistle of Paul the Apostle to Philemon", "Philemon"),
	nt("The Epistle of Paul the Apostle to the Hebrews", "Hebrews"),
	nt("The General Epistle of James", "James"),
	nt("The First Epistle General of Peter", "1 Peter"),
	nt("The Second General Epistle of Peter", "2 Peter"),
	nt("The First Epistle General of John", "1 John"),
	nt("The Second Epistle General of John", "2 John"),
	nt("The Third Epistle General of John", "3 John"),
	nt("The General Epistle of Jude", "Jude"),
	nt("The Revelation of Saint John the Divine", "Revelation"),
}

// Titles returns a copy of the ordered title table.
func Titles() []TitleRule {
	out := make([]TitleRule, len(titleRules))
	copy(out, titleRules)
	return out
}

// Classify reports whether line is a book-title header and, if so, which
// canonical book it announces. It is pure and consults no parse state.
func Classify(line string) (Title, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, otherwiseCalled) {
		return Title{}, false
	}

	for _, r := range titleRules {
		if r.Matches(line) {
			return Title{Name: r.Name, Testament: r.Testament}, true
		}
	}
	return Title{}, false
}

// isKings reports whether name is one of the two books whose headers collide
// with the Samuel headers.
func isKings(name string) bool {
	return name == "1 Kings" || name == "2 Kings"
}
