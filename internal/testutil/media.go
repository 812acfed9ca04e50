package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jmylchreest/localtv/internal/models"
)

// Fictional titles for generated programmes. NEVER use real titles.
var (
	TitleAdjectives = []string{
		"Silent", "Crimson", "Hidden", "Endless", "Broken", "Golden", "Northern", "Last",
	}

	TitleNouns = []string{
		"Harbour", "Signal", "Orchard", "Frontier", "Lantern", "Voyage", "Circuit", "Meadow",
	}

	// Sponsors for generated ad spots.
	Sponsors = []string{
		"FizzPop", "AeroWheels", "BrightHome", "CloudBank", "SnackRight",
	}

	// Groups used as programme categories.
	Groups = []string{"Movies", "Series", "Documentary", "Kids"}

	// Extensions of generated media files.
	Extensions = []string{".mkv", ".mp4", ".webm"}
)

// SampleDataGenerator creates deterministic media items for tests.
type SampleDataGenerator struct {
	rng *rand.Rand
}

// NewSampleDataGenerator creates a generator with a random seed.
func NewSampleDataGenerator() *SampleDataGenerator {
	return &SampleDataGenerator{
		rng: rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewSampleDataGeneratorWithSeed creates a generator whose output is
// reproducible for a given seed.
func NewSampleDataGeneratorWithSeed(seed int64) *SampleDataGenerator {
	return &SampleDataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (g *SampleDataGenerator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// RandomTitle returns a two-word programme title.
func (g *SampleDataGenerator) RandomTitle() string {
	return g.pick(TitleAdjectives) + " " + g.pick(TitleNouns)
}

// Programme returns one programme item numbered n.
func (g *SampleDataGenerator) Programme(n int) models.MediaItem {
	title := fmt.Sprintf("%s %d", g.RandomTitle(), n)
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	item := models.NewMediaItem(title, "/media/programmes/"+slug+g.pick(Extensions))
	item.Duration = 1200 + g.rng.Intn(6000)
	item.Group = g.pick(Groups)
	return item
}

// Ad returns one ad spot numbered n.
func (g *SampleDataGenerator) Ad(n int) models.MediaItem {
	sponsor := g.pick(Sponsors)
	item := models.NewMediaItem(fmt.Sprintf("%s Spot %d", sponsor, n),
		fmt.Sprintf("/media/ads/%s-%d.mp4", strings.ToLower(sponsor), n))
	item.Duration = 15 + 15*g.rng.Intn(3)
	item.Ad = true
	return item
}

// Programmes returns count programme items.
func (g *SampleDataGenerator) Programmes(count int) []models.MediaItem {
	items := make([]models.MediaItem, count)
	for i := range items {
		items[i] = g.Programme(i + 1)
	}
	return items
}

// Ads returns count ad items.
func (g *SampleDataGenerator) Ads(count int) []models.MediaItem {
	items := make([]models.MediaItem, count)
	for i := range items {
		items[i] = g.Ad(i + 1)
	}
	return items
}

// Numbered returns count items titled "item-1" to "item-N". Rotation tests
// use them where readable titles help failure output.
func Numbered(prefix string, count int) []models.MediaItem {
	items := make([]models.MediaItem, count)
	for i := range items {
		name := fmt.Sprintf("%s-%d", prefix, i+1)
		items[i] = models.NewMediaItem(name, "/media/"+name+".mkv")
	}
	return items
}
