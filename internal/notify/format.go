package notify

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cargovortex/notify-relay/internal/slack"
)

const (
	defaultUserName  = "System"
	defaultAlgorithm = "Standard"

	timestampLayout = "2006-01-02 15:04:05"
)

var titleCaser = cases.Title(language.English)

// Formatter renders events into messages. It is pure apart from the
// clock, which is injectable for tests.
type Formatter struct {
	now func() time.Time
}

// NewFormatter creates a formatter using the wall clock.
func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// Format renders an event. It never fails: absent fields render with
// their defaults, and the action button is omitted entirely when the
// event carries no visualization URL.
func (f *Formatter) Format(event Event) Message {
	userName := event.UserName
	if userName == "" {
		userName = defaultUserName
	}
	algorithm := event.Algorithm
	if algorithm == "" {
		algorithm = defaultAlgorithm
	}
	algorithm = titleCaser.String(algorithm)

	items := fmt.Sprintf("%d", event.ItemsPacked)
	if event.TotalItems > 0 {
		items = fmt.Sprintf("%d/%d", event.ItemsPacked, event.TotalItems)
	}

	timestamp := f.now().Format(timestampLayout)

	return Message{
		Text:   plainText(event, items, userName, algorithm, timestamp),
		Blocks: richBlocks(event, items, userName, algorithm, timestamp),
	}
}

func plainText(event Event, items, userName, algorithm, timestamp string) string {
	var b strings.Builder

	b.WriteString("✅ *Optimization Complete!*\n\n")
	fmt.Fprintf(&b, "📊 *%.1f%%* Volume Utilization\n", event.VolumeUtilization)
	fmt.Fprintf(&b, "📦 *%s* Items Packed\n", items)
	fmt.Fprintf(&b, "⚖️ *%.1f kg* Total Weight\n", event.TotalWeight)
	fmt.Fprintf(&b, "📏 *%.2f m³* Space Remaining\n", event.RemainingVolume)

	if event.VisualizationURL != "" {
		fmt.Fprintf(&b, "\n📋 *View Full Report:* <%s|Open 3D Visualization>\n", event.VisualizationURL)
	}

	fmt.Fprintf(&b, "\n👤 *Completed by:* %s\n", userName)
	fmt.Fprintf(&b, "🤖 *Algorithm:* %s\n", algorithm)
	fmt.Fprintf(&b, "⏰ *Time:* %s", timestamp)

	return b.String()
}

func richBlocks(event Event, items, userName, algorithm, timestamp string) []slack.Block {
	blocks := []slack.Block{
		slack.HeaderBlock("🎉 Container Optimization Complete!"),
		slack.SectionFields(
			slack.Markdown(fmt.Sprintf("📊 *Volume Utilization:*\n%.1f%%", event.VolumeUtilization)),
			slack.Markdown(fmt.Sprintf("📦 *Items Packed:*\n%s", items)),
			slack.Markdown(fmt.Sprintf("⚖️ *Total Weight:*\n%.1f kg", event.TotalWeight)),
			slack.Markdown(fmt.Sprintf("📏 *Space Remaining:*\n%.2f m³", event.RemainingVolume)),
		),
		slack.SectionText(fmt.Sprintf(
			"👤 *Completed by:* %s\n🤖 *Algorithm:* %s\n⏰ *Time:* %s",
			userName, algorithm, timestamp,
		)),
	}

	if event.VisualizationURL != "" {
		blocks = append(blocks,
			slack.ActionsBlock(
				slack.ButtonElement("📱 View 3D Visualization", event.VisualizationURL, "primary"),
			),
			slack.ContextBlock(fmt.Sprintf("📱 *Mobile Access:* %s", event.VisualizationURL)),
		)
	}

	return blocks
}
