package dashboard

const dashboardHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Keyscope</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        body.light { background: #f8fafc; color: #0f172a; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .header .status { padding: 0.5rem 1rem; border-radius: 9999px; font-size: 0.875rem; font-weight: 600; background: #854d0e; color: #fde047; }
        .status.running { background: #166534; color: #4ade80; }
        .status.error { background: #991b1b; color: #fca5a5; }
        .tabs { display: flex; gap: 0.5rem; padding: 1rem 2rem 0; }
        .tabs button { background: #1e293b; color: #94a3b8; border: 1px solid #334155; border-bottom: none; border-radius: 8px 8px 0 0; padding: 0.5rem 1.25rem; cursor: pointer; }
        .tabs button.active { color: #38bdf8; border-color: #38bdf8; }
        .panel { display: none; padding: 1.5rem 2rem; }
        .panel.active { display: block; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.25rem; }
        .card .label { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 0.5rem; }
        .card .value { font-size: 1.75rem; font-weight: 700; color: #f1f5f9; }
        .card.accent { border-color: #38bdf8; }
        .card.accent .value { color: #38bdf8; }
        .card.success .value { color: #4ade80; }
        .card.warning .value { color: #fbbf24; }
        .card.error .value { color: #f87171; }
        form { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.25rem; margin-bottom: 1.5rem; }
        .row { display: flex; flex-wrap: wrap; gap: 1rem; align-items: flex-end; margin-bottom: 1rem; }
        label { font-size: 0.8rem; color: #94a3b8; display: block; margin-bottom: 0.25rem; }
        input[type=text], input[type=number], select { background: #0f172a; border: 1px solid #475569; color: #e2e8f0; border-radius: 6px; padding: 0.5rem 0.75rem; }
        input[type=text] { min-width: 280px; }
        input[type=number] { width: 90px; }
        .sources { display: flex; flex-wrap: wrap; gap: 0.5rem 1.25rem; }
        .sources label { display: inline-flex; gap: 0.35rem; align-items: center; color: #e2e8f0; font-size: 0.875rem; margin: 0; }
        .sources .kind { color: #64748b; font-size: 0.7rem; }
        button.primary { background: #38bdf8; color: #0f172a; border: none; border-radius: 6px; padding: 0.6rem 1.5rem; font-weight: 700; cursor: pointer; }
        button.primary:disabled { opacity: 0.5; cursor: wait; }
        .table-wrap { overflow: auto; border: 1px solid #334155; border-radius: 12px; margin-bottom: 1.5rem; }
        table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
        th { position: sticky; top: 0; background: #334155; text-align: left; padding: 0.5rem 0.75rem; }
        td { border-top: 1px solid #1e293b; padding: 0.5rem 0.75rem; vertical-align: top; }
        td.content { max-width: 420px; color: #cbd5e1; }
        tr.placeholder td { color: #94a3b8; font-style: italic; }
        a { color: #38bdf8; text-decoration: none; }
        .bars .bar { display: flex; align-items: center; gap: 0.75rem; margin: 0.3rem 0; font-size: 0.85rem; }
        .bars .bar .name { width: 160px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; color: #94a3b8; }
        .bars .bar .fill { height: 14px; background: linear-gradient(90deg, #38bdf8, #818cf8); border-radius: 4px; }
        .hist { display: flex; align-items: flex-end; gap: 2px; height: 160px; }
        .hist div { flex: 1; background: #4ade80; min-height: 1px; border-radius: 2px 2px 0 0; }
        .cloud { line-height: 2.2; }
        .cloud span { margin: 0 0.4rem; color: #818cf8; white-space: nowrap; }
        .errors { color: #fca5a5; font-size: 0.85rem; margin-bottom: 1rem; }
        h2 { font-size: 1rem; margin: 1rem 0 0.75rem; color: #cbd5e1; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Keyscope</h1>
        <span class="status" id="status">Idle</span>
    </div>
    <div class="tabs">
        <button class="active" data-tab="search">Search</button>
        <button data-tab="analysis">Analysis</button>
    </div>

    <div class="panel active" id="panel-search">
        <div class="grid">
            <div class="card accent"><div class="label">Searches</div><div class="value" id="searches">0</div></div>
            <div class="card success"><div class="label">Records</div><div class="value" id="records">0</div></div>
            <div class="card warning"><div class="label">Placeholders</div><div class="value" id="placeholders">0</div></div>
            <div class="card error"><div class="label">Source Errors</div><div class="value" id="source_errors">0</div></div>
            <div class="card"><div class="label">Exports</div><div class="value" id="exports">0</div></div>
        </div>

        <form id="search-form">
            <div class="row">
                <div><label for="keyword">Keyword</label><input type="text" id="keyword" required placeholder="검색어"></div>
                <div><label for="pages">Pages</label><input type="number" id="pages" min="1" value="5"></div>
                <div><label for="max">Max results</label><input type="number" id="max" min="10" max="100" value="50"></div>
                <div><label><input type="checkbox" id="parallel"> Parallel</label></div>
                <div><label><input type="checkbox" id="export" checked> Export</label></div>
                <div><label for="format">Format</label>
                    <select id="format"><option>xlsx</option><option>csv</option><option>json</option><option>jsonl</option></select></div>
                <button class="primary" id="go" type="submit">Search</button>
            </div>
            <div class="sources" id="sources"></div>
        </form>

        <div class="errors" id="errors"></div>
        <div id="export-link"></div>
        <div class="table-wrap" id="table-wrap">
            <table>
                <thead><tr><th>제목</th><th>내용</th><th>언론사</th><th>날짜</th><th>Source</th></tr></thead>
                <tbody id="results"></tbody>
            </table>
        </div>
        <div id="distribution-wrap">
            <h2>Source distribution</h2>
            <div class="bars" id="distribution"></div>
        </div>
    </div>

    <div class="panel" id="panel-analysis">
        <div class="row">
            <div><label for="files">Export file</label><select id="files"></select></div>
            <a id="download" href="#">Download</a>
        </div>
        <div class="grid">
            <div class="card accent"><div class="label">Total</div><div class="value" id="a-total">-</div></div>
            <div class="card"><div class="label">Unique sources</div><div class="value" id="a-sources">-</div></div>
            <div class="card"><div class="label">Unique dates</div><div class="value" id="a-dates">-</div></div>
            <div class="card success"><div class="label">Avg length</div><div class="value" id="a-mean">-</div></div>
        </div>
        <h2>Word frequency</h2>
        <div class="cloud" id="a-words"></div>
        <h2>Sources</h2>
        <div class="bars" id="a-bars"></div>
        <h2>Content length</h2>
        <div class="hist" id="a-hist"></div>
    </div>

    <div class="footer">Keyscope</div>
    <script>
        var settings = { display: { table_height: 600, max_results_display: 100, show_source_distribution: true, theme: 'dark' } };

        function $(id) { return document.getElementById(id); }
        function esc(s) {
            return String(s == null ? '' : s).replace(/[&<>"']/g, function(c) {
                return { '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;' }[c];
            });
        }
        function getJSON(url, opts) {
            return fetch(url, opts).then(function(r) {
                return r.json().then(function(d) { if (!r.ok) throw new Error(d.error || r.statusText); return d; });
            });
        }
        function bars(el, items) {
            var top = items.length ? items[0].count : 1;
            el.innerHTML = items.map(function(it) {
                return '<div class="bar"><span class="name" title="' + esc(it.name) + '">' + esc(it.name) + '</span>' +
                    '<span class="fill" style="width:' + Math.max(2, 300 * it.count / top) + 'px"></span><span>' + it.count + '</span></div>';
            }).join('');
        }

        document.querySelectorAll('.tabs button').forEach(function(b) {
            b.onclick = function() {
                document.querySelectorAll('.tabs button').forEach(function(x) { x.classList.remove('active'); });
                document.querySelectorAll('.panel').forEach(function(x) { x.classList.remove('active'); });
                b.classList.add('active');
                $('panel-' + b.dataset.tab).classList.add('active');
                if (b.dataset.tab === 'analysis') loadExports();
            };
        });

        function loadSettings() {
            return getJSON('/api/settings').then(function(s) {
                settings = s;
                $('table-wrap').style.maxHeight = s.display.table_height + 'px';
                $('distribution-wrap').style.display = s.display.show_source_distribution ? '' : 'none';
                if (s.display.theme === 'light') document.body.classList.add('light');
                $('pages').value = s.search.default_pages;
                $('pages').max = s.search.max_pages;
                $('max').value = s.search.max_results;
                $('parallel').checked = s.advanced.parallel_requests;
                $('format').value = s.export.format;
            });
        }

        function loadSources() {
            return getJSON('/api/sources').then(function(d) {
                $('sources').innerHTML = d.sources.map(function(s) {
                    var checked = d.defaults.indexOf(s.name) >= 0 ? ' checked' : '';
                    return '<label><input type="checkbox" value="' + esc(s.name) + '"' + checked + '>' + esc(s.label) +
                        ' <span class="kind">' + esc(s.kind) + (s.live ? '' : ', offline') + '</span></label>';
                }).join('');
            });
        }

        function refreshStats() {
            getJSON('/api/stats').then(function(d) {
                ['searches', 'records', 'placeholders', 'source_errors', 'exports'].forEach(function(k) {
                    if (d[k] !== undefined) $(k).textContent = Number(d[k]).toLocaleString();
                });
            }).catch(function() {});
        }

        function render(res) {
            var rows = (res.records || []).slice(0, settings.display.max_results_display);
            $('results').innerHTML = rows.map(function(r) {
                return '<tr class="' + (r.placeholder ? 'placeholder' : '') + '">' +
                    '<td><a href="' + esc(r.link) + '" target="_blank" rel="noopener">' + esc(r.title) + '</a></td>' +
                    '<td class="content">' + esc(r.content) + '</td><td>' + esc(r.publisher) + '</td>' +
                    '<td>' + esc(r.date) + '</td><td>' + esc(r.source) + '</td></tr>';
            }).join('');
            var dist = Object.keys(res.per_source || {}).map(function(k) { return { name: k, count: res.per_source[k] }; });
            dist.sort(function(a, b) { return b.count - a.count || (a.name < b.name ? -1 : 1); });
            bars($('distribution'), dist);
            var errs = Object.keys(res.errors || {});
            $('errors').innerHTML = errs.map(function(k) { return esc(k) + ': ' + esc(res.errors[k]); }).join('<br>');
            $('export-link').innerHTML = res.export ?
                '<p>Exported <a href="/api/exports/' + encodeURIComponent(res.export) + '">' + esc(res.export) + '</a></p>' : '';
        }

        $('search-form').onsubmit = function(e) {
            e.preventDefault();
            var sources = [];
            document.querySelectorAll('#sources input:checked').forEach(function(i) { sources.push(i.value); });
            var body = {
                keyword: $('keyword').value,
                sources: sources,
                pages: Number($('pages').value),
                max_results: Number($('max').value),
                parallel: $('parallel').checked,
                export: $('export').checked,
                format: $('format').value
            };
            $('go').disabled = true;
            $('status').textContent = 'Searching';
            $('status').className = 'status running';
            getJSON('/api/search', { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(body) })
                .then(function(res) {
                    render(res);
                    $('status').textContent = res.records.length + ' results';
                    $('status').className = 'status';
                })
                .catch(function(err) {
                    $('errors').textContent = err.message;
                    $('status').textContent = 'Error';
                    $('status').className = 'status error';
                })
                .then(function() { $('go').disabled = false; refreshStats(); });
        };

        function loadExports() {
            getJSON('/api/exports').then(function(files) {
                $('files').innerHTML = files.map(function(f) {
                    return '<option value="' + esc(f.name) + '">' + esc(f.name) + ' (' + esc(f.keyword) + ', ' + f.size_kb + ' KB)</option>';
                }).join('');
                if (files.length) analyze(files[0].name);
            });
        }

        function analyze(name) {
            $('download').href = '/api/exports/' + encodeURIComponent(name);
            getJSON('/api/exports/' + encodeURIComponent(name) + '/analysis').then(function(rep) {
                $('a-total').textContent = rep.overview.total;
                $('a-sources').textContent = rep.overview.unique_sources;
                $('a-dates').textContent = rep.overview.unique_dates;
                $('a-mean').textContent = Math.round(rep.content.mean);
                var words = rep.words || [];
                var top = words.length ? words[0].count : 1;
                $('a-words').innerHTML = words.map(function(w) {
                    return '<span style="font-size:' + (0.8 + 1.6 * w.count / top).toFixed(2) + 'rem">' + esc(w.word) + '</span>';
                }).join(' ');
                bars($('a-bars'), rep.sources || []);
                var hist = rep.content.histogram || [];
                var peak = Math.max.apply(null, hist.map(function(b) { return b.count; }).concat([1]));
                $('a-hist').innerHTML = hist.map(function(b) {
                    return '<div title="' + Math.round(b.from) + '-' + Math.round(b.to) + ': ' + b.count + '" style="height:' + (100 * b.count / peak) + '%"></div>';
                }).join('');
            }).catch(function(err) { $('a-words').textContent = err.message; });
        }
        $('files').onchange = function() { analyze($('files').value); };

        loadSettings().then(loadSources);
        refreshStats();
        setInterval(refreshStats, 5000);
    </script>
</body>
</html>`
