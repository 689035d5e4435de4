package render

import (
	"html"
	"strings"
)

// UserEcho renders the user's query as a chat bubble. The text is trimmed and HTML-escaped.
func UserEcho(text string) string {
	return "<div style='background:#0066ff;padding:12px;border-radius:12px;" +
		"max-width:70%;margin-left:auto;margin-bottom:12px;color:white;font-weight:500;'>" +
		html.EscapeString(strings.TrimSpace(text)) + "</div>"
}

// ErrorEntry renders an inline error with an icon prefix. The message is HTML-escaped.
func ErrorEntry(icon, message string) string {
	return "<div style='color:red;'>" + icon + " " + html.EscapeString(message) + "</div>"
}

// Transcript wraps entries in the scrollable chat box, followed by the scroll anchor
// and the script that scrolls it into view.
func Transcript(entries []string) string {
	var b strings.Builder
	b.WriteString(`
    <div id='chatbox' style='height:500px; overflow-y:auto; background:#0e0e0e; padding:1rem;
         border-radius:10px; border:1px solid #333; color:#ccc; font-family:Myriad, sans-serif'>
        `)
	for _, e := range entries {
		b.WriteString(e)
	}
	b.WriteString(`
        <div id='` + ScrollAnchor + `'></div>
    </div>
    <script>
        var el = document.getElementById("` + ScrollAnchor + `");
        if (el) {
            el.scrollIntoView({ behavior: "smooth" });
        }
    </script>
    `)
	return b.String()
}
