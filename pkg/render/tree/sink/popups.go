package sink

import (
	"bytes"
	"fmt"
)

const (
	popupCSS = `
    .popup { pointer-events: none; transition: opacity 0.15s ease; }
    .popup[visibility="hidden"] { opacity: 0; }
    .popup[visibility="visible"] { opacity: 1; }`

	popupJS = `
    document.querySelectorAll('.person').forEach(el => {
      const popup = document.getElementById('popup-' + el.id);
      if (!popup) return;
      el.addEventListener('mouseenter', () => {
        el.classList.add('highlight');
        popup.setAttribute('visibility', 'visible');
      });
      el.addEventListener('mouseleave', () => {
        el.classList.remove('highlight');
        popup.setAttribute('visibility', 'hidden');
      });
    });`
)

// RenderPopupScript embeds the hover wiring for person popups.
func RenderPopupScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", popupCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", popupJS)
}
