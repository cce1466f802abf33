package report

// The report templates are embedded constants so the binary has no
// external file dependencies.

const baseStyle = `
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #0d9488;
    --green: #16a34a;
    --red: #dc2626;
    --amber: #d97706;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }
  .ticker-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.1rem;
    margin-right: 8px;
  }
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }
  td.num, th.num { text-align: right; }
  .badge {
    display: inline-block;
    padding: 1px 8px;
    border-radius: 3px;
    font-size: 0.8rem;
    font-weight: 600;
  }
  .badge.pass, .badge.buy, .badge.underpriced { background: #dcfce7; color: var(--green); }
  .badge.fail, .badge.sell, .badge.overpriced { background: #fef2f2; color: var(--red); }
  .badge.hold, .badge.fair_value { background: #fef9c3; color: var(--amber); }
  .badge.unknown { background: #f3f4f6; color: var(--muted); }
  .ratio-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(180px, 1fr));
    gap: 8px;
    margin: 10px 0 16px;
  }
  .ratio-card {
    background: var(--section-bg);
    padding: 8px 12px;
    border-radius: 6px;
    display: flex;
    justify-content: space-between;
  }
  .ratio-card .label { color: var(--muted); font-size: 0.85rem; }
  .ratio-card .value { font-weight: 600; }
  .chart-container { margin: 12px 0; }
  .chart-container img { max-width: 100%; }
  .section { margin: 20px 0; }
  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }
  @media print {
    body { max-width: 100%; padding: 10px; }
    .section { page-break-inside: avoid; }
  }
</style>`

// runTemplate renders a full pipeline run: the ranked shortlist, the
// allocation plan, and the stocks that were excluded or failed.
const runTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
` + baseStyle + `
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">Universe: {{.Universe}} &middot; Variant: {{.Variant}} &middot; {{.StocksTotal}} stocks processed</p>
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
  </div>
</div>

<div class="section">
  <h2>Ranked Shortlist</h2>
  <table>
    <thead><tr>
      <th>#</th><th>Ticker</th><th>Company</th><th>Sector</th>
      <th class="num">Price</th><th class="num">Score</th><th>Valuation</th>
    </tr></thead>
    <tbody>
    {{range .Ranked}}
    <tr>
      <td>{{.Rank}}</td>
      <td><strong>{{.Ticker}}</strong></td>
      <td>{{.Company}}</td>
      <td>{{.Sector}}</td>
      <td class="num">{{.Price}}</td>
      <td class="num"><strong>{{.Score}}</strong></td>
      <td><span class="badge {{.TagClass}}">{{.Tag}}</span></td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>

{{if .Allocation}}
<div class="section">
  <h2>Allocation Plan &mdash; {{.Budget}}</h2>
  <table>
    <thead><tr>
      <th>Ticker</th><th>Company</th><th class="num">Score</th>
      <th class="num">Amount</th><th class="num">Approx. Shares</th>
    </tr></thead>
    <tbody>
    {{range .Allocation}}
    <tr>
      <td><strong>{{.Ticker}}</strong></td>
      <td>{{.Company}}</td>
      <td class="num">{{.Score}}</td>
      <td class="num">{{.Amount}}</td>
      <td class="num">{{.Shares}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

{{if .Excluded}}
<div class="section">
  <h2>Excluded</h2>
  <table>
    <thead><tr><th>Ticker</th><th>Reason</th></tr></thead>
    <tbody>
    {{range .Excluded}}
    <tr><td>{{.Ticker}}</td><td>{{.Reason}}</td></tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<div class="footer">
  <p><strong>Disclaimer:</strong> This report is generated for educational and informational
  purposes only and does not constitute financial or religious advice. Consult a qualified
  advisor and scholars before making investment decisions.</p>
</div>

</body>
</html>`

// researchTemplate renders one stock: compliance rule table, score
// breakdown, fundamentals, technical signals, price chart, headlines.
const researchTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
` + baseStyle + `
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1><span class="ticker-badge">{{.Ticker}}</span> {{.Company}}</h1>
    <p class="muted">{{.Sector}}{{if .Industry}} &middot; {{.Industry}}{{end}}</p>
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
    {{if .Price}}<p><strong>{{.Price}}</strong></p>{{end}}
  </div>
</div>

{{if .Compliance}}
<div class="section">
  <h2>Sharia Compliance &mdash; <span class="badge {{.ComplianceClass}}">{{.ComplianceVerdict}}</span></h2>
  <table>
    <thead><tr><th>Rule</th><th>Status</th><th class="num">Value</th><th class="num">Threshold</th><th>Detail</th></tr></thead>
    <tbody>
    {{range .Compliance}}
    <tr>
      <td>{{.Name}}</td>
      <td><span class="badge {{.StatusClass}}">{{.Status}}</span></td>
      <td class="num">{{.Value}}</td>
      <td class="num">{{.Threshold}}</td>
      <td>{{.Reason}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

{{if .HasScore}}
<div class="section">
  <h2>Composite Score: {{.Composite}} / 100 &mdash; <span class="badge {{.TagClass}}">{{.Tag}}</span></h2>
  <table>
    <thead><tr><th>Category</th><th class="num">Score</th><th class="num">Weight</th></tr></thead>
    <tbody>
    {{range .Categories}}
    <tr><td>{{.Name}}</td><td class="num">{{.Score}}</td><td class="num">{{.Weight}}</td></tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

{{if .Ratios}}
<div class="section">
  <h2>Fundamentals</h2>
  <div class="ratio-grid">
    {{range .Ratios}}
    <div class="ratio-card">
      <span class="label">{{.Label}}</span>
      <span class="value">{{.Value}}</span>
    </div>
    {{end}}
  </div>
</div>
{{end}}

{{if .Signals}}
<div class="section">
  <h2>Technical Signals &mdash; <span class="badge {{.OverallClass}}">{{.Overall}}</span></h2>
  <table>
    <thead><tr><th>Indicator</th><th>Vote</th><th>Detail</th></tr></thead>
    <tbody>
    {{range .Signals}}
    <tr>
      <td>{{.Name}}</td>
      <td><span class="badge {{.VoteClass}}">{{.Vote}}</span></td>
      <td>{{.Detail}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

{{if .ChartURI}}
<div class="section">
  <h2>Price Chart</h2>
  <div class="chart-container"><img src="{{.ChartURI}}" alt="price chart"></div>
</div>
{{end}}

{{if .News}}
<div class="section">
  <h2>Recent Headlines</h2>
  <table>
    <thead><tr><th>Date</th><th>Headline</th></tr></thead>
    <tbody>
    {{range .News}}
    <tr><td>{{.Date}}</td><td><a href="{{.URL}}">{{.Title}}</a></td></tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<div class="footer">
  <p><strong>Disclaimer:</strong> This report is generated for educational and informational
  purposes only and does not constitute financial or religious advice. Consult a qualified
  advisor and scholars before making investment decisions.</p>
</div>

</body>
</html>`
