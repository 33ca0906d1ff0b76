package tui

import "strings"

var eth2vaultLogoLines = []string{
	` _______ _________      ________              _ _   `,
	`|  ___\ \|__   __| |    |___  / |            | | |  `,
	`| |__  | |_| |  | |__     / /| |___   __ __ _| | |_ `,
	`|  __| | __| |  | '_ \   / / | / __|  \ \ / _' | | __|`,
	`| |___ |_|_| |  | | | | / /__| \__ \   \ \ (_| | | |_ `,
	`|_____|    |_|  |_| |_|/_____|_|___/    \_\__,_|_|\__|`,
}

func renderLogo(pad string) string {
	var b strings.Builder
	for _, line := range eth2vaultLogoLines {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
