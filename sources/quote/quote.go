package quote

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/termdetox/terminal-detox/types"
)

// Quotes is the fixed list the quote of the day is picked from
var Quotes = []types.QuoteOfTheDay{
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "In the middle of difficulty lies opportunity.", Author: "Albert Einstein"},
	{Text: "Simplicity is the ultimate sophistication.", Author: "Leonardo da Vinci"},
	{Text: "The best time to plant a tree was 20 years ago. The second best time is now.", Author: "Chinese Proverb"},
	{Text: "Talk is cheap. Show me the code.", Author: "Linus Torvalds"},
	{Text: "First, solve the problem. Then, write the code.", Author: "John Johnson"},
	{Text: "Any fool can write code that a computer can understand. Good programmers write code that humans can understand.", Author: "Martin Fowler"},
	{Text: "Programs must be written for people to read, and only incidentally for machines to execute.", Author: "Harold Abelson"},
	{Text: "The most dangerous phrase in the language is: We've always done it this way.", Author: "Grace Hopper"},
	{Text: "Perfection is achieved not when there is nothing more to add, but when there is nothing left to take away.", Author: "Antoine de Saint-Exupéry"},
	{Text: "The computer was born to solve problems that did not exist before.", Author: "Bill Gates"},
	{Text: "Measuring programming progress by lines of code is like measuring aircraft building progress by weight.", Author: "Bill Gates"},
	{Text: "Before software can be reusable it first has to be usable.", Author: "Ralph Johnson"},
	{Text: "Make it work, make it right, make it fast.", Author: "Kent Beck"},
	{Text: "Walking on water and developing software from a specification are easy if both are frozen.", Author: "Edward V. Berard"},
	{Text: "The function of good software is to make the complex appear to be simple.", Author: "Grady Booch"},
	{Text: "There are two ways to write error-free programs; only the third one works.", Author: "Alan J. Perlis"},
	{Text: "A language that doesn't affect the way you think about programming is not worth knowing.", Author: "Alan J. Perlis"},
	{Text: "The best error message is the one that never shows up.", Author: "Thomas Fuchs"},
	{Text: "Delete code. Delete code. Delete code.", Author: "Unknown"},
	{Text: "Weeks of coding can save you hours of planning.", Author: "Unknown"},
	{Text: "It's not a bug – it's an undocumented feature.", Author: "Unknown"},
	{Text: "Code never lies, comments sometimes do.", Author: "Ron Jeffries"},
	{Text: "The quieter you become, the more you can hear.", Author: "Ram Dass"},
	{Text: "Almost everything will work again if you unplug it for a few minutes, including you.", Author: "Anne Lamott"},
	{Text: "Disconnect to reconnect.", Author: "Unknown"},
	{Text: "Technology is a useful servant but a dangerous master.", Author: "Christian Lous Lange"},
	{Text: "The real problem is not whether machines think but whether men do.", Author: "B.F. Skinner"},
	{Text: "Life is what happens when you're busy making other plans.", Author: "John Lennon"},
	{Text: "Not all those who wander are lost.", Author: "J.R.R. Tolkien"},
}

// Params are the (empty) options of a quote request
type Params struct{}

// Adapter picks a random quote; it has no upstream
type Adapter struct {
	sync.Mutex
	rand *rand.Rand
}

// NewAdapter creates a quote adapter seeded from the clock
func NewAdapter() *Adapter {
	return NewAdapterWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewAdapterWithSource creates a quote adapter with a deterministic source
func NewAdapterWithSource(source rand.Source) *Adapter {
	return &Adapter{rand: rand.New(source)}
}

// Name gets the display name of the source
func (a *Adapter) Name() string {
	return "Quote"
}

// Fetch picks a random quote
func (a *Adapter) Fetch(ctx context.Context, params Params) (types.QuoteOfTheDay, error) {
	a.Lock()
	defer a.Unlock()

	return Quotes[a.rand.Intn(len(Quotes))], nil
}

// Fallback answers with the first quote
func (a *Adapter) Fallback(params Params) types.QuoteOfTheDay {
	return Quotes[0]
}
