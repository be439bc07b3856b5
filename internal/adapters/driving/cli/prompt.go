package cli

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// Menu selections that are not a single group.
const (
	choiceAll  = "a"
	choiceExit = "0"
)

// groupMenu prompts for which groups to check, in the same shape as the
// interactive menu: a number picks one group, "a" picks all, "0" exits.
// It returns nil when the user exits or input ends.
func groupMenu(in io.Reader, out io.Writer, groups []domain.GroupStatus) []domain.ResourceGroup {
	reader := bufio.NewReader(in)
	for {
		writeLine(out, "Available groups:")
		for i, g := range groups {
			status := "CSV missing"
			if g.InputAvailable {
				status = "CSV found"
			}
			writeLine(out, "  "+strconv.Itoa(i+1)+". "+g.Group.String()+" - "+status)
		}
		writeLine(out, "")
		writeLine(out, "Options:")
		writeLine(out, "  1-"+strconv.Itoa(len(groups))+" : Select group")
		writeLine(out, "  a   : Check all groups")
		writeLine(out, "  0   : Exit")
		_, _ = io.WriteString(out, "\nEnter your choice: ")

		input, err := reader.ReadString('\n')
		choice := strings.ToLower(strings.TrimSpace(input))
		switch {
		case choice == choiceExit:
			return nil
		case choice == choiceAll:
			all := make([]domain.ResourceGroup, len(groups))
			for i, g := range groups {
				all[i] = g.Group
			}
			return all
		}

		if idx := parseChoice(choice, len(groups), 0); idx > 0 {
			return []domain.ResourceGroup{groups[idx-1].Group}
		}
		if err != nil {
			return nil
		}
		writeLine(out, "Invalid choice! Please try again.")
	}
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// parseChoice returns the 1-based choice in input, or defaultVal when
// input is empty, not a number or out of range.
func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func writeLine(w io.Writer, s string) {
	_, _ = io.WriteString(w, s+"\n")
}
