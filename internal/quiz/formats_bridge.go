//go:build !formats_no_bridge
// +build !formats_no_bridge

package quiz

// --- bridge to formats.BankLike ---

func (b Bank) GetID() string            { return b.ID }
func (b Bank) GetTitle() string         { return b.Title }
func (b Bank) GetQuestions() []Question { return b.Questions }
