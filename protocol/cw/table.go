package cw

// table maps each supported character to its dot/dash pattern, carried
// over from the transmit-side table direwolf uses for morse_send.
var table = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.",
	'=': "-...-", '-': "-....-", ')': "-.--.-", ':': "---...",
	';': "-.-.-.", '"': ".-..-.", '\'': ".----.", '$': "...-..-",
	'!': "-.-.--", '(': "-.--.", '&': ".-...", '+': ".-.-.",
	'_': "..--.-", '@': ".--.-.",
}

// reverse is built once from table for pattern-to-character decode lookup.
var reverse map[string]rune

func init() {
	reverse = make(map[string]rune, len(table))
	for ch, pattern := range table {
		reverse[pattern] = ch
	}
}

// lookup returns the character for a dot/dash pattern, or '?' if the
// pattern matches nothing in the table (same fallback direwolf's
// morse_lookup implies by treating unknowns as filler).
func lookup(pattern string) rune {
	if ch, ok := reverse[pattern]; ok {
		return ch
	}
	return '?'
}
