package api

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Tennis Monitor</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            padding: 20px;
        }
        .container { max-width: 800px; margin: 0 auto; }
        .header { color: white; text-align: center; margin-bottom: 40px; }
        .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 20px; }
        .card { background: white; border-radius: 12px; padding: 20px; box-shadow: 0 10px 30px rgba(0,0,0,0.2); }
        .card h2 { color: #667eea; font-size: 0.9em; text-transform: uppercase; margin-bottom: 15px; }
        .card .value { font-size: 2.5em; font-weight: bold; color: #333; }
        .slots { background: white; border-radius: 12px; padding: 25px; box-shadow: 0 10px 30px rgba(0,0,0,0.2); }
        .slot-row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #eee; }
        button { padding: 8px 16px; border: none; border-radius: 6px; background: #667eea; color: white; font-weight: bold; cursor: pointer; }
        .token { margin-bottom: 20px; }
        .token input { width: 100%; padding: 10px; border: 1px solid #ddd; border-radius: 6px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>🎾 Tennis Monitor</h1></div>
        <div class="cards">
            <div class="card"><h2>Status</h2><div class="value" id="status">…</div></div>
            <div class="card"><h2>Checks Today</h2><div class="value" id="checks">0</div></div>
            <div class="card"><h2>Slots Found</h2><div class="value" id="slots-count">0</div></div>
        </div>
        <div class="slots">
            <div class="token"><input type="password" id="token" placeholder="API token"></div>
            <h2>Last Found Slots</h2>
            <div id="slots"></div>
        </div>
    </div>
    <script>
        async function apiCall(endpoint, method = "GET", data = null) {
            const options = {
                method,
                headers: { "X-Token": document.getElementById("token").value, "Content-Type": "application/json" }
            };
            if (data) options.body = JSON.stringify(data);
            const response = await fetch(endpoint, options);
            if (!response.ok) throw new Error("HTTP " + response.status);
            return response.json();
        }
        async function loadStatus() {
            try {
                const data = await apiCall("/api/status");
                document.getElementById("status").textContent = data.is_running ? "🟢" : "🔴";
                document.getElementById("checks").textContent = data.checks_performed_today;
                document.getElementById("slots-count").textContent = data.slots_found_today;
                const slots = document.getElementById("slots");
                slots.innerHTML = "";
                for (const slot of data.available_slots || []) {
                    const row = document.createElement("div");
                    row.className = "slot-row";
                    row.innerHTML = "<span>" + slot.name + " " + slot.time_slot + "</span>";
                    const btn = document.createElement("button");
                    btn.textContent = "Book";
                    btn.onclick = () => apiCall("/api/monitor/book", "POST", { court_name: slot.name, time_slot: slot.time_slot });
                    row.appendChild(btn);
                    slots.appendChild(row);
                }
            } catch (e) { /* token missing or server down */ }
        }
        loadStatus();
        setInterval(loadStatus, 10000);
    </script>
</body>
</html>`
