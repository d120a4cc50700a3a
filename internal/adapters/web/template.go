package web

const pageTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,'Segoe UI',Roboto,sans-serif;background:#f4f6f8;color:#1c2733;font-size:14px;line-height:1.5}
header{background:#10344c;color:#fff;padding:10px 16px;display:flex;gap:12px;align-items:center}
header .brand{font-weight:700;font-size:16px}
.banner{padding:8px 16px;font-size:13px}
.banner.loading{background:#fff6dd;color:#7a5b00;border-bottom:1px solid #e8d89a}
.banner.error{background:#fdecea;color:#8f1f13;border-bottom:1px solid #f3b8b0}
#map{height:520px;border-bottom:1px solid #d4dbe2}
main{padding:16px}
h2{font-size:14px;font-weight:600;color:#51606e;text-transform:uppercase;letter-spacing:.05em;margin:12px 0 8px}
table{width:100%;border-collapse:collapse;background:#fff;border:1px solid #d4dbe2;font-size:13px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #d4dbe2;color:#51606e;font-weight:600;font-size:12px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #e8edf2;vertical-align:top}
.tag{display:inline-block;padding:1px 8px;border-radius:10px;font-size:11px;font-weight:600}
.tag.in{background:#fdecea;color:#8f1f13}
.tag.out{background:#e7f6ec;color:#1c6b35}
.empty{padding:12px;background:#fff;border:1px solid #d4dbe2;color:#51606e}
.feed-error{padding:12px;background:#fdecea;border:1px solid #f3b8b0;color:#8f1f13}
</style>
</head>
<body>
<header><span class="brand">{{.Title}}</span></header>
{{if .HasLoading}}<div class="banner loading">{{.Loading}}</div>{{end}}
{{if .HasError}}<div class="banner error">{{.ErrMsg}}</div>{{end}}
<div id="map"></div>
<main>
{{if .HasHistory}}
<h2>Valve Opening History</h2>
{{if .HistoryErr}}
<div class="feed-error">Error loading history: {{.HistoryErr}}</div>
{{else if .HistoryEmpty}}
<div class="empty">No valve opening events recorded yet.</div>
{{else}}
<table>
<thead><tr><th>Timestamp</th><th>Vessel</th><th>Position</th><th>In Zone</th><th>Status</th></tr></thead>
<tbody>
{{range .Entries}}<tr>
<td>{{.Timestamp}}</td>
<td>{{.VesselName}} (#{{.VesselID}})</td>
<td>{{printf "%.6f, %.6f" .Lat .Lng}}</td>
<td>{{if .InZone}}<span class="tag in">inside</span>{{else}}<span class="tag out">outside</span>{{end}}</td>
<td>{{.Status}}</td>
</tr>{{end}}
</tbody>
</table>
{{end}}
{{end}}
</main>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
var map = L.map('map'){{if .HasView}}.setView([{{.Lat}}, {{.Lng}}], {{.Zoom}}){{else}}.setView([0, 0], 2){{end}};
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var land = {{.Land}};
if (land) {
  L.geoJSON(JSON.parse(land), {style: {color: '#5b7a5b', weight: 1, fillOpacity: 0.25}}).addTo(map);
}
var zone = {{.Zone}};
if (zone) {
  L.geoJSON(JSON.parse(zone), {style: {color: '#c0392b', weight: 1, fillOpacity: 0.15}}).addTo(map);
}

function popupBody(v) {
  var root = document.createElement('div');
  var name = document.createElement('b');
  name.textContent = v.name + ' (#' + v.id + ')';
  root.appendChild(name);
  var pos = document.createElement('div');
  pos.textContent = v.position;
  root.appendChild(pos);
  var valve = document.createElement('div');
  valve.textContent = 'Valve: ' + v.valve;
  valve.style.fontWeight = '600';
  valve.style.color = v.valveOpen ? '#c0392b' : '#1c6b35';
  root.appendChild(valve);
  return root;
}

var vessels = {{.Vessels}};
(vessels || []).forEach(function (v) {
  L.circleMarker([v.lat, v.lng], {
    radius: 6,
    color: v.valveOpen ? '#c0392b' : '#2471a3',
    fillOpacity: 0.85
  }).addTo(map).bindPopup(popupBody(v));
});
</script>
</body>
</html>
`
