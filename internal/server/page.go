package server

import "html/template"

type pageData struct {
	Transcript template.HTML
	ScrollTo   string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Laptop Bot</title>
<style>
  body { background:#111; color:#ccc; font-family:Myriad, sans-serif; max-width:900px; margin:2rem auto; }
  form { display:flex; gap:8px; margin:1rem 0; }
  input[type=text] { flex:1; padding:10px; border-radius:8px; border:1px solid #333; background:#1a1a1a; color:#eee; }
  button { padding:10px 16px; border-radius:8px; border:1px solid #333; background:#222; color:#eee; cursor:pointer; }
</style>
</head>
<body>
<h2 style="color:#eee">Laptop Q&amp;A Bot</h2>
<p style="color:#ccc">Ask things like 'top 3 laptops under 700', 'best rated HP', etc.</p>
<form id="ask">
  <input type="text" id="query" placeholder="Ask about laptops..." autocomplete="off" autofocus>
  <button type="button" id="clear">Clear Chat</button>
</form>
<div id="transcript">{{.Transcript}}</div>
<script>
  function show(resp) {
    document.getElementById("transcript").innerHTML = resp.html;
    var el = document.getElementById(resp.scroll_to);
    if (el) { el.scrollIntoView({ behavior: "smooth" }); }
  }
  function post(path, body) {
    return fetch(path, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body || {}),
      credentials: "same-origin"
    }).then(function (r) { return r.json(); }).then(show);
  }
  document.getElementById("ask").addEventListener("submit", function (e) {
    e.preventDefault();
    var input = document.getElementById("query");
    var q = input.value;
    input.value = "";
    post("/api/v1/chat", { query: q });
  });
  document.getElementById("clear").addEventListener("click", function () {
    post("/api/v1/chat/reset");
  });
  var anchor = document.getElementById({{.ScrollTo}});
  if (anchor) { anchor.scrollIntoView(); }
</script>
</body>
</html>
`))
